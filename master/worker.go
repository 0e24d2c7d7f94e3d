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
	"sync"
	"time"

	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util/log"
)

// Worker stores all the information about one storage worker known to the
// master. Block ownership lives in the block index; the worker record only
// carries identity and liveness.
type Worker struct {
	sync.RWMutex
	ID         uint64
	Addr       string
	ReportTime time.Time
	isActive   bool
}

func newWorker(id uint64, addr string) *Worker {
	return &Worker{
		ID:         id,
		Addr:       addr,
		ReportTime: time.Now(),
		isActive:   true,
	}
}

func (worker *Worker) updateReportTime() {
	worker.Lock()
	worker.ReportTime = time.Now()
	worker.isActive = true
	worker.Unlock()
}

func (worker *Worker) isStale(timeoutSec int64) bool {
	worker.RLock()
	defer worker.RUnlock()
	return time.Since(worker.ReportTime) > time.Duration(timeoutSec)*time.Second
}

func (worker *Worker) setInactive() (changed bool) {
	worker.Lock()
	defer worker.Unlock()
	changed = worker.isActive
	worker.isActive = false
	return
}

// addWorker registers a worker address and returns its id. Re-registering
// the same address returns the existing id and refreshes liveness.
func (c *Cluster) addWorker(addr string) (uint64, error) {
	if addr == "" {
		return 0, proto.ErrParamError
	}
	if value, ok := c.workerAddrs.Load(addr); ok {
		id := value.(uint64)
		if worker, err := c.getWorker(id); err == nil {
			worker.updateReportTime()
		}
		return id, nil
	}
	id := c.allocateID()
	worker := newWorker(id, addr)
	if actual, loaded := c.workerAddrs.LoadOrStore(addr, id); loaded {
		return actual.(uint64), nil
	}
	c.workers.Store(id, worker)
	log.LogInfof("action[addWorker] cluster[%v] worker[%v] addr[%v] registered", c.Name, id, addr)
	c.safeMode.onWorkerChange(c.activeWorkerCount())
	return id, nil
}

func (c *Cluster) getWorker(workerID uint64) (*Worker, error) {
	value, ok := c.workers.Load(workerID)
	if !ok {
		return nil, proto.ErrWorkerNotExists
	}
	return value.(*Worker), nil
}

// workerHeartbeat refreshes liveness and applies the reported block delta
// to the block index.
func (c *Cluster) workerHeartbeat(hb *proto.WorkerHeartbeat) error {
	worker, err := c.getWorker(hb.WorkerID)
	if err != nil {
		return err
	}
	worker.updateReportTime()
	for _, blockID := range hb.AddedBlocks {
		c.blockIndex.addLocation(blockID, worker.ID)
	}
	for _, blockID := range hb.RemovedBlocks {
		c.blockIndex.removeLocation(blockID, worker.ID)
	}
	if len(hb.AddedBlocks) > 0 || len(hb.RemovedBlocks) > 0 {
		log.LogDebugf("action[workerHeartbeat] worker[%v] added[%v] removed[%v]",
			worker.ID, len(hb.AddedBlocks), len(hb.RemovedBlocks))
	}
	return nil
}

// checkWorkerHeartbeat sweeps for workers that stopped reporting and drops
// their locations, so the next replication pass sees the real copy counts.
func (c *Cluster) checkWorkerHeartbeat() {
	c.workers.Range(func(_, value interface{}) bool {
		worker := value.(*Worker)
		if !worker.isStale(c.cfg.workerTimeoutSec) {
			return true
		}
		if worker.setInactive() {
			removed := c.blockIndex.removeWorkerLocations(worker.ID)
			Warn(c.Name, fmt.Sprintf("action[%v] worker[%v] addr[%v] inactive, dropped %v block locations",
				workerInactiveInfo, worker.ID, worker.Addr, removed))
		}
		return true
	})
}

func (c *Cluster) activeWorkerCount() (count int) {
	c.workers.Range(func(_, value interface{}) bool {
		worker := value.(*Worker)
		worker.RLock()
		if worker.isActive {
			count++
		}
		worker.RUnlock()
		return true
	})
	return
}

func (c *Cluster) allWorkerInfo() (infos []proto.WorkerInfo) {
	infos = make([]proto.WorkerInfo, 0)
	c.workers.Range(func(_, value interface{}) bool {
		worker := value.(*Worker)
		worker.RLock()
		infos = append(infos, proto.WorkerInfo{
			ID:         worker.ID,
			Addr:       worker.Addr,
			ReportTime: worker.ReportTime.Unix(),
			IsActive:   worker.isActive,
			BlockCount: c.blockIndex.workerBlockCount(worker.ID),
		})
		worker.RUnlock()
		return true
	})
	return
}
