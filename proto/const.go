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

// api routes exposed by the master
const (
	AdminGetCluster       = "/admin/getCluster"
	AdminSetSafeMode      = "/admin/setSafeMode"
	AdminCheckReplication = "/admin/checkReplication"
	AdminGetRecentJobs    = "/admin/getRecentJobs"

	ClientCreateFile    = "/file/create"
	ClientCompleteFile  = "/file/complete"
	ClientDeleteFile    = "/file/delete"
	ClientGetFile       = "/file/get"
	ClientSetFilePolicy = "/file/setPolicy"

	AddWorker             = "/worker/add"
	GetWorker             = "/worker/get"
	ReportWorkerHeartbeat = "/worker/heartbeat"
)

// path a correction job is posted to on the job service
const (
	JobServiceDispatch = "/job/dispatch"
)
