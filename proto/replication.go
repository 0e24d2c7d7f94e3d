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

package proto

// ReplicationMaxUnbounded disables the over-replication check for a file.
const ReplicationMaxUnbounded = -1

// CorrectionOp is the kind of corrective action taken on a block.
type CorrectionOp uint8

const (
	OpReplicateBlock CorrectionOp = iota + 1
	OpEvictBlock
)

func (op CorrectionOp) String() string {
	switch op {
	case OpReplicateBlock:
		return "replicate"
	case OpEvictBlock:
		return "evict"
	default:
		return "unknown"
	}
}

// CorrectionJob is one corrective action handed to the job service. The
// master fires it and forgets it; job execution is tracked downstream.
type CorrectionJob struct {
	JobID       string
	Op          CorrectionOp
	Path        string
	BlockID     uint64
	NumReplicas int
	CreateTime  int64
}

// FileEntryInfo is the external view of a file entry.
type FileEntryInfo struct {
	ID             uint64
	Path           string
	ReplicationMin int
	ReplicationMax int
	Completed      bool
	Blocks         []uint64
}

// WorkerInfo is the external view of a registered worker.
type WorkerInfo struct {
	ID         uint64
	Addr       string
	ReportTime int64
	IsActive   bool
	BlockCount int
}

// WorkerHeartbeat carries the block delta a worker reports on each beat.
type WorkerHeartbeat struct {
	WorkerID      uint64
	AddedBlocks   []uint64
	RemovedBlocks []uint64
}

// ReplicationPassView summarizes the most recent reconciliation pass.
type ReplicationPassView struct {
	StartTime       int64
	DurationMs      int64
	FilesScanned    int
	FilesSkipped    int
	BlocksScanned   int
	UnderReplicated int
	OverReplicated  int
	LostBlocks      int
	Dispatched      int
	DispatchFailed  int
	ScanOnly        bool
}

// ClusterView is the admin view of the whole master.
type ClusterView struct {
	Name        string
	SafeMode    bool
	WorkerCount int
	FileCount   int
	BlockCount  int
	StartTime   string
	Uptime      string
	LastPass    *ReplicationPassView
	Workers     []WorkerInfo
}

// HTTPReply is the uniform admin api response envelope.
type HTTPReply struct {
	Code int32       `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}
