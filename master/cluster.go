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
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dustin/go-humanize"

	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util/log"
)

// Cluster wires the namespace, the block index, the worker registry, the
// safe-mode gate, and the replication checker together, and owns the
// background schedule loops.
type Cluster struct {
	Name        string
	cfg         *clusterConfig
	namespace   *Namespace
	blockIndex  *BlockIndex
	safeMode    *safeModeManager
	dispatcher  *jobDispatcher
	checker     *ReplicationChecker
	workers     sync.Map // workerID -> *Worker
	workerAddrs sync.Map // addr -> workerID
	idAlloc     uint64
	clock       clock.Clock
	createTime  time.Time
	stopC       chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func newCluster(name string, cfg *clusterConfig, clk clock.Clock) *Cluster {
	c := &Cluster{
		Name:       name,
		cfg:        cfg,
		namespace:  newNamespace(),
		blockIndex: newBlockIndex(),
		clock:      clk,
		createTime: time.Now(),
		stopC:      make(chan struct{}),
	}
	c.safeMode = newSafeModeManager(name, cfg.safeModeAtStart, cfg.safeModeWorkerThreshold)
	c.dispatcher = newJobDispatcher(name, cfg.jobServiceAddr, cfg.dispatchRatePerSec, cfg.dispatchQueueSize)
	policy := SafeModeSkipPass
	if cfg.safeModeScanOnly {
		policy = SafeModeScanOnly
	}
	c.checker = newReplicationChecker(name, c.namespace, c.blockIndex, c.safeMode, c.dispatcher, policy)
	setWarnInterval(cfg.warnIntervalSec)
	return c
}

func (c *Cluster) scheduleTask() {
	c.scheduleToCheckReplication()
	c.scheduleToCheckWorkerHeartbeat()
}

func (c *Cluster) scheduleToCheckReplication() {
	interval := time.Duration(c.cfg.checkReplicationIntervalSec) * time.Second
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := c.clock.Ticker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stopC:
				return
			case <-ticker.C:
				c.checker.Heartbeat()
			}
		}
	}()
}

func (c *Cluster) scheduleToCheckWorkerHeartbeat() {
	interval := time.Duration(c.cfg.workerTimeoutSec) * time.Second / defaultNoHeartbeatTimes
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := c.clock.Ticker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stopC:
				return
			case <-ticker.C:
				c.checkWorkerHeartbeat()
			}
		}
	}()
}

func (c *Cluster) stop() {
	c.stopOnce.Do(func() {
		close(c.stopC)
		c.wg.Wait()
		c.dispatcher.Stop()
		log.LogInfof("action[stop] cluster[%v] stopped", c.Name)
	})
}

func (c *Cluster) allocateID() uint64 {
	return atomic.AddUint64(&c.idAlloc, 1)
}

// allocateBlockIDs hands out ids for a file being completed.
func (c *Cluster) allocateBlockIDs(count int) []uint64 {
	ids := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, c.allocateID())
	}
	return ids
}

func (c *Cluster) clusterView() *proto.ClusterView {
	workerInfos := c.allWorkerInfo()
	return &proto.ClusterView{
		Name:        c.Name,
		SafeMode:    !c.safeMode.IsOperational(),
		WorkerCount: len(workerInfos),
		FileCount:   c.namespace.fileCount(),
		BlockCount:  c.blockIndex.blockCount(),
		StartTime:   c.createTime.Format(time.RFC3339),
		Uptime:      humanize.RelTime(c.createTime, time.Now(), "", ""),
		LastPass:    c.checker.LastPass(),
		Workers:     workerInfos,
	}
}
