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
	"math"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/stratofs/stratofs/proto"
)

// FileEntry is one file in the namespace. The embedded lock guards the
// mutable fields; readers hold it only while inspecting a single entry.
type FileEntry struct {
	sync.RWMutex
	ID             uint64
	Path           string
	ReplicationMin int
	ReplicationMax int // proto.ReplicationMaxUnbounded disables the upper bound
	Completed      bool
	Blocks         []uint64
	CreateTime     int64
}

func newFileEntry(id uint64, path string, replicationMin, replicationMax int) *FileEntry {
	return &FileEntry{
		ID:             id,
		Path:           path,
		ReplicationMin: replicationMin,
		ReplicationMax: replicationMax,
		CreateTime:     time.Now().Unix(),
	}
}

func (entry *FileEntry) info() *proto.FileEntryInfo {
	entry.RLock()
	defer entry.RUnlock()
	blocks := make([]uint64, len(entry.Blocks))
	copy(blocks, entry.Blocks)
	return &proto.FileEntryInfo{
		ID:             entry.ID,
		Path:           entry.Path,
		ReplicationMin: entry.ReplicationMin,
		ReplicationMax: entry.ReplicationMax,
		Completed:      entry.Completed,
		Blocks:         blocks,
	}
}

type fileItem struct {
	id    uint64
	entry *FileEntry
}

func (item fileItem) Less(than btree.Item) bool {
	return item.id < than.(fileItem).id
}

// Namespace indexes file entries by id and by path. The namespace lock only
// guards the indexes; entry state is guarded by each entry's own lock, so a
// traversal never blocks mutations of entries it is not currently visiting.
type Namespace struct {
	sync.RWMutex
	tree     *btree.BTree
	pathToID map[string]uint64
}

func newNamespace() *Namespace {
	return &Namespace{
		tree:     btree.New(32),
		pathToID: make(map[string]uint64),
	}
}

func checkReplicationBounds(replicationMin, replicationMax int) error {
	if replicationMin < 0 {
		return proto.ErrParamError
	}
	if replicationMax != proto.ReplicationMaxUnbounded && replicationMax < replicationMin {
		return proto.ErrBadReplicationBound
	}
	return nil
}

func (ns *Namespace) createFileEntry(id uint64, path string, replicationMin, replicationMax int) (*FileEntry, error) {
	if err := checkReplicationBounds(replicationMin, replicationMax); err != nil {
		return nil, err
	}
	ns.Lock()
	defer ns.Unlock()
	if _, exists := ns.pathToID[path]; exists {
		return nil, proto.ErrDuplicateFileEntry
	}
	entry := newFileEntry(id, path, replicationMin, replicationMax)
	ns.tree.ReplaceOrInsert(fileItem{id: id, entry: entry})
	ns.pathToID[path] = id
	return entry, nil
}

func (ns *Namespace) getFileEntry(path string) (*FileEntry, error) {
	ns.RLock()
	defer ns.RUnlock()
	id, exists := ns.pathToID[path]
	if !exists {
		return nil, proto.ErrFileEntryNotExists
	}
	item := ns.tree.Get(fileItem{id: id})
	if item == nil {
		return nil, proto.ErrFileEntryNotExists
	}
	return item.(fileItem).entry, nil
}

// completeFileEntry seals the entry with its final block list. A completed
// entry becomes visible to the replication scan.
func (ns *Namespace) completeFileEntry(path string, blocks []uint64) error {
	entry, err := ns.getFileEntry(path)
	if err != nil {
		return err
	}
	entry.Lock()
	defer entry.Unlock()
	if entry.Completed {
		return proto.ErrFileAlreadyComplete
	}
	entry.Blocks = blocks
	entry.Completed = true
	return nil
}

// setFilePolicy adjusts the replication bounds of an existing entry.
func (ns *Namespace) setFilePolicy(path string, replicationMin, replicationMax int) error {
	if err := checkReplicationBounds(replicationMin, replicationMax); err != nil {
		return err
	}
	entry, err := ns.getFileEntry(path)
	if err != nil {
		return err
	}
	entry.Lock()
	entry.ReplicationMin = replicationMin
	entry.ReplicationMax = replicationMax
	entry.Unlock()
	return nil
}

func (ns *Namespace) deleteFileEntry(path string) error {
	ns.Lock()
	defer ns.Unlock()
	id, exists := ns.pathToID[path]
	if !exists {
		return proto.ErrFileEntryNotExists
	}
	delete(ns.pathToID, path)
	ns.tree.Delete(fileItem{id: id})
	return nil
}

func (ns *Namespace) fileCount() int {
	ns.RLock()
	defer ns.RUnlock()
	return ns.tree.Len()
}

// ForEachFileEntry visits every file entry in id order. The index lock is
// released between entries, and the visitor runs under the entry's read
// lock only, so namespace mutations elsewhere are never blocked for the
// duration of a full traversal. Entries created behind the cursor are
// picked up by the next traversal; entries deleted mid-walk are skipped.
func (ns *Namespace) ForEachFileEntry(visit func(entry *FileEntry)) {
	var pivot uint64
	for {
		var next *FileEntry
		ns.RLock()
		ns.tree.AscendGreaterOrEqual(fileItem{id: pivot}, func(item btree.Item) bool {
			next = item.(fileItem).entry
			return false
		})
		ns.RUnlock()
		if next == nil {
			return
		}
		next.RLock()
		visit(next)
		next.RUnlock()
		if next.ID == math.MaxUint64 {
			return
		}
		pivot = next.ID + 1
	}
}
