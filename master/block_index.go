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
)

// blockMeta survives even when every holder is gone: a block that was once
// reported and now has zero holders is lost, which is a different state
// from a block no worker has ever reported.
type blockMeta struct {
	holders map[uint64]struct{} // workerIDs
}

// BlockIndex tracks which workers hold a valid copy of each block. It is
// fed exclusively by worker heartbeats and worker decommission; the
// replication scan only reads it.
type BlockIndex struct {
	sync.RWMutex
	blocks       map[uint64]*blockMeta          // blockID -> meta
	workerBlocks map[uint64]map[uint64]struct{} // workerID -> blockIDs
}

func newBlockIndex() *BlockIndex {
	return &BlockIndex{
		blocks:       make(map[uint64]*blockMeta),
		workerBlocks: make(map[uint64]map[uint64]struct{}),
	}
}

func (index *BlockIndex) addLocation(blockID, workerID uint64) {
	index.Lock()
	defer index.Unlock()
	meta, ok := index.blocks[blockID]
	if !ok {
		meta = &blockMeta{holders: make(map[uint64]struct{})}
		index.blocks[blockID] = meta
	}
	meta.holders[workerID] = struct{}{}

	held, ok := index.workerBlocks[workerID]
	if !ok {
		held = make(map[uint64]struct{})
		index.workerBlocks[workerID] = held
	}
	held[blockID] = struct{}{}
}

func (index *BlockIndex) removeLocation(blockID, workerID uint64) {
	index.Lock()
	defer index.Unlock()
	if meta, ok := index.blocks[blockID]; ok {
		delete(meta.holders, workerID)
	}
	if held, ok := index.workerBlocks[workerID]; ok {
		delete(held, blockID)
		if len(held) == 0 {
			delete(index.workerBlocks, workerID)
		}
	}
}

// removeWorkerLocations drops every location the worker held and returns
// how many blocks were affected. Called when a worker goes inactive.
func (index *BlockIndex) removeWorkerLocations(workerID uint64) (removed int) {
	index.Lock()
	defer index.Unlock()
	held, ok := index.workerBlocks[workerID]
	if !ok {
		return 0
	}
	for blockID := range held {
		if meta, ok := index.blocks[blockID]; ok {
			delete(meta.holders, workerID)
		}
		removed++
	}
	delete(index.workerBlocks, workerID)
	return
}

// ValidLocationCount reports how many workers currently hold a valid copy
// of the block. known is false for a block no worker has ever reported;
// such a block still has its data in persistent storage and can be
// replicated from there, unlike a known block whose holders are all gone.
// The lookup is in-memory and never fails here; the error return is part
// of the contract for remote index implementations.
func (index *BlockIndex) ValidLocationCount(blockID uint64) (count int, known bool, err error) {
	index.RLock()
	defer index.RUnlock()
	meta, ok := index.blocks[blockID]
	if !ok {
		return 0, false, nil
	}
	return len(meta.holders), true, nil
}

func (index *BlockIndex) workerBlockCount(workerID uint64) int {
	index.RLock()
	defer index.RUnlock()
	return len(index.workerBlocks[workerID])
}

func (index *BlockIndex) blockCount() int {
	index.RLock()
	defer index.RUnlock()
	return len(index.blocks)
}
