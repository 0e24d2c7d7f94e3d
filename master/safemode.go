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
	"sync"

	"github.com/stratofs/stratofs/util/log"
)

// safeModeManager gates corrective dispatch. The cluster starts gated until
// enough workers have registered, and an operator can force the gate either
// way through the admin api. A manual setting always wins over auto-lift.
type safeModeManager struct {
	mu              sync.RWMutex
	engaged         bool
	manual          bool
	workerThreshold int64
	clusterID       string
}

func newSafeModeManager(clusterID string, engagedAtStart bool, workerThreshold int64) *safeModeManager {
	return &safeModeManager{
		engaged:         engagedAtStart,
		workerThreshold: workerThreshold,
		clusterID:       clusterID,
	}
}

// IsOperational implements SafeModeGate.
func (sm *safeModeManager) IsOperational() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return !sm.engaged
}

// setSafeMode is the operator override.
func (sm *safeModeManager) setSafeMode(engaged bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.manual = true
	if sm.engaged == engaged {
		return
	}
	sm.engaged = engaged
	log.LogWarnf("action[setSafeMode] cluster[%v] safe mode set to %v by operator", sm.clusterID, engaged)
}

// onWorkerChange lifts the gate automatically once the active worker count
// reaches the threshold, unless an operator pinned the state.
func (sm *safeModeManager) onWorkerChange(activeWorkers int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.manual || !sm.engaged {
		return
	}
	if int64(activeWorkers) >= sm.workerThreshold {
		sm.engaged = false
		log.LogInfof("action[onWorkerChange] cluster[%v] safe mode lifted, %v active workers",
			sm.clusterID, activeWorkers)
	}
}
