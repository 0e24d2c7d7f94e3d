// Copyright 2024 The StratoFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package master

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockIndexAddRemoveLocation(t *testing.T) {
	index := newBlockIndex()

	count, known, err := index.ValidLocationCount(1)
	require.NoError(t, err)
	assert.False(t, known)
	assert.Equal(t, 0, count)

	index.addLocation(1, 100)
	index.addLocation(1, 101)
	index.addLocation(1, 101) // duplicate report is idempotent
	count, known, err = index.ValidLocationCount(1)
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 2, count)

	index.removeLocation(1, 100)
	count, _, err = index.ValidLocationCount(1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// A block stays known after its last holder disappears; that is what
// separates a lost block from a never-reported one.
func TestBlockIndexKnownAfterAllHoldersGone(t *testing.T) {
	index := newBlockIndex()
	index.addLocation(1, 100)
	index.removeLocation(1, 100)

	count, known, err := index.ValidLocationCount(1)
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 0, count)
}

func TestBlockIndexRemoveWorkerLocations(t *testing.T) {
	index := newBlockIndex()
	index.addLocation(1, 100)
	index.addLocation(2, 100)
	index.addLocation(2, 101)
	assert.Equal(t, 2, index.workerBlockCount(100))

	removed := index.removeWorkerLocations(100)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, index.workerBlockCount(100))

	count, known, err := index.ValidLocationCount(1)
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 0, count)

	count, _, err = index.ValidLocationCount(2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, 0, index.removeWorkerLocations(100))
}

func TestBlockIndexBlockCount(t *testing.T) {
	index := newBlockIndex()
	assert.Equal(t, 0, index.blockCount())
	index.addLocation(1, 100)
	index.addLocation(2, 100)
	index.addLocation(1, 101)
	assert.Equal(t, 2, index.blockCount())
}
