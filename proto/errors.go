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

import "github.com/stratofs/stratofs/util/errors"

// err
var (
	ErrSuc           = errors.New("success")
	ErrInternalError = errors.New("internal error")
	ErrParamError    = errors.New("parameter error")
	ErrInvalidCfg    = errors.New("bad configuration file")

	ErrFileEntryNotExists  = errors.New("file entry not exists")
	ErrDuplicateFileEntry  = errors.New("duplicate file entry")
	ErrFileAlreadyComplete = errors.New("file entry already completed")
	ErrWorkerNotExists     = errors.New("worker not exists")
	ErrBlockNotExists      = errors.New("block not exists")
	ErrBadReplicationBound = errors.New("replication max is less than replication min")
	ErrInSafeMode          = errors.New("cluster is in safe mode")
	ErrDispatcherStopped   = errors.New("job dispatcher has been stopped")
)

// http reply codes
const (
	ErrCodeSuccess int32 = iota
	ErrCodeInternalError
	ErrCodeParamError
	ErrCodeFileEntryNotExists
	ErrCodeDuplicateFileEntry
	ErrCodeFileAlreadyComplete
	ErrCodeWorkerNotExists
	ErrCodeBlockNotExists
	ErrCodeBadReplicationBound
	ErrCodeInSafeMode
	ErrCodeDispatcherStopped
)

// Err2CodeMap maps sentinel errors to reply codes.
var Err2CodeMap = map[error]int32{
	ErrSuc:                 ErrCodeSuccess,
	ErrInternalError:       ErrCodeInternalError,
	ErrParamError:          ErrCodeParamError,
	ErrFileEntryNotExists:  ErrCodeFileEntryNotExists,
	ErrDuplicateFileEntry:  ErrCodeDuplicateFileEntry,
	ErrFileAlreadyComplete: ErrCodeFileAlreadyComplete,
	ErrWorkerNotExists:     ErrCodeWorkerNotExists,
	ErrBlockNotExists:      ErrCodeBlockNotExists,
	ErrBadReplicationBound: ErrCodeBadReplicationBound,
	ErrInSafeMode:          ErrCodeInSafeMode,
	ErrDispatcherStopped:   ErrCodeDispatcherStopped,
}
