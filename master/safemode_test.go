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
)

func TestSafeModeAutoLift(t *testing.T) {
	sm := newSafeModeManager("test", true, 2)
	assert.False(t, sm.IsOperational())

	sm.onWorkerChange(1)
	assert.False(t, sm.IsOperational())

	sm.onWorkerChange(2)
	assert.True(t, sm.IsOperational())
}

func TestSafeModeManualOverridePinsState(t *testing.T) {
	sm := newSafeModeManager("test", false, 1)
	sm.setSafeMode(true)
	assert.False(t, sm.IsOperational())

	// auto-lift must not undo an operator decision
	sm.onWorkerChange(10)
	assert.False(t, sm.IsOperational())

	sm.setSafeMode(false)
	assert.True(t, sm.IsOperational())
}

func TestSafeModeStartsOperationalWhenNotEngaged(t *testing.T) {
	sm := newSafeModeManager("test", false, 1)
	assert.True(t, sm.IsOperational())
}
