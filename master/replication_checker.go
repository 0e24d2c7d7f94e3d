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

	"golang.org/x/sync/singleflight"

	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util/exporter"
	"github.com/stratofs/stratofs/util/log"
)

// SafeModeGate reports whether corrective dispatch is currently permitted.
type SafeModeGate interface {
	IsOperational() bool
}

// BlockLocationIndex reports the number of workers known to hold a valid
// copy of a block. known distinguishes a block the index has never seen
// (not yet cached anywhere, data safe in persistent storage) from a block
// it has seen whose copies are all gone (lost).
type BlockLocationIndex interface {
	ValidLocationCount(blockID uint64) (count int, known bool, err error)
}

// NamespaceView is a read-only traversal over all file entries. The visitor
// is invoked under the entry's read lock and must not retain the entry.
type NamespaceView interface {
	ForEachFileEntry(visit func(entry *FileEntry))
}

// ReplicationHandler accepts corrective actions for a block. Both calls are
// asynchronous on the implementation side and return an opaque job handle;
// duplicate requests for the same block across passes are tolerated
// downstream.
type ReplicationHandler interface {
	Replicate(path string, blockID uint64, numReplicas int) (jobID string, err error)
	Evict(path string, blockID uint64, numReplicas int) (jobID string, err error)
}

// SafeModePolicy decides what a pass does while the gate is closed.
type SafeModePolicy uint8

const (
	// SafeModeSkipPass skips scanning and dispatch entirely.
	SafeModeSkipPass SafeModePolicy = iota
	// SafeModeScanOnly scans and logs intended corrections without
	// dispatching any.
	SafeModeScanOnly
)

// ReplicationChecker reconciles actual block replica counts against each
// file's replication bounds. One Heartbeat call is one self-contained pass:
// walk the namespace, classify every block, then dispatch a deduplicated
// batch of corrections. The checker keeps no state between passes.
type ReplicationChecker struct {
	clusterID string
	namespace NamespaceView
	blocks    BlockLocationIndex
	gate      SafeModeGate
	handler   ReplicationHandler
	policy    SafeModePolicy
	metrics   *replicationMetrics

	group    singleflight.Group
	mu       sync.RWMutex
	lastPass *proto.ReplicationPassView
}

func newReplicationChecker(clusterID string, namespace NamespaceView, blocks BlockLocationIndex,
	gate SafeModeGate, handler ReplicationHandler, policy SafeModePolicy) *ReplicationChecker {
	return &ReplicationChecker{
		clusterID: clusterID,
		namespace: namespace,
		blocks:    blocks,
		gate:      gate,
		handler:   handler,
		policy:    policy,
		metrics:   newReplicationMetrics(),
	}
}

// correction is one pending action for a block.
type correction struct {
	path  string
	delta int
}

// Heartbeat performs one reconciliation pass. Overlapping callers (the
// schedule loop plus an admin trigger) share a single in-flight pass
// instead of running concurrently.
func (checker *ReplicationChecker) Heartbeat() {
	checker.group.Do("heartbeat", func() (interface{}, error) {
		checker.runPass()
		return nil, nil
	})
}

// LastPass returns the summary of the most recent pass, or nil before the
// first one finished.
func (checker *ReplicationChecker) LastPass() *proto.ReplicationPassView {
	checker.mu.RLock()
	defer checker.mu.RUnlock()
	return checker.lastPass
}

func (checker *ReplicationChecker) runPass() {
	defer func() {
		if r := recover(); r != nil {
			log.LogErrorf("action[runPass] occurred panic,err[%v]", r)
			WarnBySpecialKey(fmt.Sprintf("%v%v%v", checker.clusterID, UnderlineSeparator, schedulingJobPanic),
				"replication check occurred panic")
		}
	}()

	view := &proto.ReplicationPassView{StartTime: time.Now().Unix()}
	tp := exporter.NewTP("replication_check")
	start := time.Now()

	dispatchAllowed := checker.gate.IsOperational()
	if !dispatchAllowed {
		if checker.policy == SafeModeSkipPass {
			log.LogInfof("action[runPass] cluster[%v] in safe mode, pass skipped", checker.clusterID)
			checker.finishPass(view, start, tp)
			return
		}
		view.ScanOnly = true
	}

	replicateSet := make(map[uint64]correction)
	evictSet := make(map[uint64]correction)
	checker.scan(view, replicateSet, evictSet)
	view.UnderReplicated = len(replicateSet)
	view.OverReplicated = len(evictSet)

	if dispatchAllowed {
		checker.dispatch(view, replicateSet, evictSet)
	} else {
		checker.logIntended(replicateSet, evictSet)
	}
	checker.finishPass(view, start, tp)
}

// scan walks the namespace once and fills the replicate and evict sets.
// Each block carries a strictly positive delta. A block referenced by more
// than one entry is classified once per pass: the first classification
// wins, even when a later entry's bounds would put it in the other set.
func (checker *ReplicationChecker) scan(view *proto.ReplicationPassView,
	replicateSet, evictSet map[uint64]correction) {
	checker.namespace.ForEachFileEntry(func(entry *FileEntry) {
		if !entry.Completed || len(entry.Blocks) == 0 {
			view.FilesSkipped++
			return
		}
		view.FilesScanned++
		for _, blockID := range entry.Blocks {
			count, known, err := checker.blocks.ValidLocationCount(blockID)
			if err != nil {
				warnWithInterval(checker.clusterID, checkReplicationErr,
					fmt.Sprintf("file[%v] block[%v] location lookup failed: %v", entry.Path, blockID, err))
				continue
			}
			view.BlocksScanned++
			if known && count == 0 {
				// Lost block. Recovery belongs to a separate mechanism;
				// neither replication nor eviction can help here.
				view.LostBlocks++
				warnWithInterval(checker.clusterID, lostBlockInfo,
					fmt.Sprintf("block[%v] of file[%v] has no valid location", blockID, entry.Path))
				continue
			}
			if _, seen := replicateSet[blockID]; seen {
				continue
			}
			if _, seen := evictSet[blockID]; seen {
				continue
			}
			if delta := entry.ReplicationMin - count; delta > 0 {
				replicateSet[blockID] = correction{path: entry.Path, delta: delta}
				continue
			}
			if entry.ReplicationMax == proto.ReplicationMaxUnbounded {
				continue
			}
			if delta := count - entry.ReplicationMax; delta > 0 {
				evictSet[blockID] = correction{path: entry.Path, delta: delta}
			}
		}
	})
}

// dispatch issues the whole correction batch. A handler failure for one
// block is logged and does not stop the remainder of the batch.
func (checker *ReplicationChecker) dispatch(view *proto.ReplicationPassView,
	replicateSet, evictSet map[uint64]correction) {
	for blockID, c := range replicateSet {
		if _, err := checker.handler.Replicate(c.path, blockID, c.delta); err != nil {
			view.DispatchFailed++
			Warn(checker.clusterID, fmt.Sprintf("action[%v] replicate block[%v] of file[%v] by %v failed: %v",
				dispatchCorrectionErr, blockID, c.path, c.delta, err))
			continue
		}
		view.Dispatched++
	}
	for blockID, c := range evictSet {
		if _, err := checker.handler.Evict(c.path, blockID, c.delta); err != nil {
			view.DispatchFailed++
			Warn(checker.clusterID, fmt.Sprintf("action[%v] evict block[%v] of file[%v] by %v failed: %v",
				dispatchCorrectionErr, blockID, c.path, c.delta, err))
			continue
		}
		view.Dispatched++
	}
}

func (checker *ReplicationChecker) logIntended(replicateSet, evictSet map[uint64]correction) {
	for blockID, c := range replicateSet {
		log.LogInfof("action[logIntended] safe mode, would replicate block[%v] of file[%v] by %v",
			blockID, c.path, c.delta)
	}
	for blockID, c := range evictSet {
		log.LogInfof("action[logIntended] safe mode, would evict block[%v] of file[%v] by %v",
			blockID, c.path, c.delta)
	}
}

func (checker *ReplicationChecker) finishPass(view *proto.ReplicationPassView, start time.Time, tp *exporter.TimePoint) {
	view.DurationMs = time.Since(start).Milliseconds()
	checker.mu.Lock()
	checker.lastPass = view
	checker.mu.Unlock()
	checker.metrics.record(view)
	tp.Set()
	log.LogInfof("action[runPass] cluster[%v] files[%v] blocks[%v] under[%v] over[%v] lost[%v] dispatched[%v] failed[%v] cost[%vms]",
		checker.clusterID, view.FilesScanned, view.BlocksScanned, view.UnderReplicated,
		view.OverReplicated, view.LostBlocks, view.Dispatched, view.DispatchFailed, view.DurationMs)
}
