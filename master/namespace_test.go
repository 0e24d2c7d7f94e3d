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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratofs/stratofs/proto"
)

func TestCreateFileEntry(t *testing.T) {
	ns := newNamespace()
	entry, err := ns.createFileEntry(1, "/a", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), entry.ID)
	assert.False(t, entry.Completed)

	_, err = ns.createFileEntry(2, "/a", 1, 3)
	assert.Equal(t, proto.ErrDuplicateFileEntry, err)
	assert.Equal(t, 1, ns.fileCount())
}

func TestReplicationBoundsValidation(t *testing.T) {
	ns := newNamespace()

	_, err := ns.createFileEntry(1, "/neg-min", -1, 3)
	assert.Equal(t, proto.ErrParamError, err)

	_, err = ns.createFileEntry(2, "/max-below-min", 3, 2)
	assert.Equal(t, proto.ErrBadReplicationBound, err)

	_, err = ns.createFileEntry(3, "/unbounded", 3, proto.ReplicationMaxUnbounded)
	assert.NoError(t, err)

	_, err = ns.createFileEntry(4, "/equal-bounds", 2, 2)
	assert.NoError(t, err)
}

func TestCompleteFileEntry(t *testing.T) {
	ns := newNamespace()
	_, err := ns.createFileEntry(1, "/a", 1, proto.ReplicationMaxUnbounded)
	require.NoError(t, err)

	require.NoError(t, ns.completeFileEntry("/a", []uint64{10, 11}))
	entry, err := ns.getFileEntry("/a")
	require.NoError(t, err)
	assert.True(t, entry.Completed)
	assert.Equal(t, []uint64{10, 11}, entry.Blocks)

	assert.Equal(t, proto.ErrFileAlreadyComplete, ns.completeFileEntry("/a", []uint64{12}))
	assert.Equal(t, proto.ErrFileEntryNotExists, ns.completeFileEntry("/missing", nil))
}

func TestSetFilePolicy(t *testing.T) {
	ns := newNamespace()
	_, err := ns.createFileEntry(1, "/a", 0, proto.ReplicationMaxUnbounded)
	require.NoError(t, err)

	require.NoError(t, ns.setFilePolicy("/a", 2, 4))
	entry, err := ns.getFileEntry("/a")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.ReplicationMin)
	assert.Equal(t, 4, entry.ReplicationMax)

	assert.Equal(t, proto.ErrBadReplicationBound, ns.setFilePolicy("/a", 4, 2))
	assert.Equal(t, proto.ErrFileEntryNotExists, ns.setFilePolicy("/missing", 1, 1))
}

func TestDeleteFileEntry(t *testing.T) {
	ns := newNamespace()
	_, err := ns.createFileEntry(1, "/a", 0, proto.ReplicationMaxUnbounded)
	require.NoError(t, err)

	require.NoError(t, ns.deleteFileEntry("/a"))
	_, err = ns.getFileEntry("/a")
	assert.Equal(t, proto.ErrFileEntryNotExists, err)
	assert.Equal(t, proto.ErrFileEntryNotExists, ns.deleteFileEntry("/a"))
}

func TestForEachFileEntryVisitsInIDOrder(t *testing.T) {
	ns := newNamespace()
	for _, id := range []uint64{5, 1, 3} {
		_, err := ns.createFileEntry(id, fmt.Sprintf("/f%v", id), 0, proto.ReplicationMaxUnbounded)
		require.NoError(t, err)
	}

	var visited []uint64
	ns.ForEachFileEntry(func(entry *FileEntry) {
		visited = append(visited, entry.ID)
	})
	assert.Equal(t, []uint64{1, 3, 5}, visited)
}

// The traversal holds no index lock while visiting, so the namespace can
// be mutated from inside the visitor without deadlocking, and an entry
// deleted ahead of the cursor is simply not visited.
func TestForEachFileEntryAllowsMutationMidWalk(t *testing.T) {
	ns := newNamespace()
	for id := uint64(1); id <= 4; id++ {
		_, err := ns.createFileEntry(id, fmt.Sprintf("/f%v", id), 0, proto.ReplicationMaxUnbounded)
		require.NoError(t, err)
	}

	var visited []uint64
	ns.ForEachFileEntry(func(entry *FileEntry) {
		visited = append(visited, entry.ID)
		if entry.ID == 1 {
			require.NoError(t, ns.deleteFileEntry("/f3"))
		}
	})
	assert.Equal(t, []uint64{1, 2, 4}, visited)
}

func TestForEachFileEntryVisitsIDZero(t *testing.T) {
	ns := newNamespace()
	for _, id := range []uint64{0, 2} {
		_, err := ns.createFileEntry(id, fmt.Sprintf("/f%v", id), 0, proto.ReplicationMaxUnbounded)
		require.NoError(t, err)
	}

	var visited []uint64
	ns.ForEachFileEntry(func(entry *FileEntry) {
		visited = append(visited, entry.ID)
	})
	assert.Equal(t, []uint64{0, 2}, visited)
}

func TestFileEntryInfoCopiesBlocks(t *testing.T) {
	ns := newNamespace()
	_, err := ns.createFileEntry(1, "/a", 1, proto.ReplicationMaxUnbounded)
	require.NoError(t, err)
	require.NoError(t, ns.completeFileEntry("/a", []uint64{10, 11}))

	entry, err := ns.getFileEntry("/a")
	require.NoError(t, err)
	info := entry.info()
	info.Blocks[0] = 99
	assert.Equal(t, uint64(10), entry.Blocks[0])
}
