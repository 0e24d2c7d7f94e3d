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
	"github.com/stratofs/stratofs/util/config"
)

// config keys
const (
	ClusterName = "clusterName"
	Listen      = "listen"
	LogLevel    = "logLevel"

	cfgCheckReplicationIntervalSec = "checkReplicationIntervalSec"
	cfgWorkerTimeoutSec            = "workerTimeoutSec"
	cfgSafeMode                    = "safeMode"
	cfgSafeModeScanOnly            = "safeModeScanOnly"
	cfgSafeModeWorkerThreshold     = "safeModeWorkerThreshold"
	cfgJobServiceAddr              = "jobServiceAddr"
	cfgDispatchRatePerSec          = "dispatchRatePerSec"
	cfgDispatchQueueSize           = "dispatchQueueSize"
	cfgWarnIntervalSec             = "warnIntervalSec"
)

const (
	defaultCheckReplicationIntervalSec = 60
	defaultNoHeartbeatTimes            = 3
	defaultWorkerTimeoutSec            = defaultNoHeartbeatTimes * defaultCheckReplicationIntervalSec
	defaultSafeModeWorkerThreshold     = 1
	defaultDispatchRatePerSec          = 128
	defaultDispatchQueueSize           = 4096
	defaultWarnIntervalSec             = 60 * 60
)

type clusterConfig struct {
	checkReplicationIntervalSec int64
	workerTimeoutSec            int64
	safeModeAtStart             bool
	safeModeScanOnly            bool
	safeModeWorkerThreshold     int64
	jobServiceAddr              string
	dispatchRatePerSec          int64
	dispatchQueueSize           int64
	warnIntervalSec             int64
}

func newClusterConfig() (cfg *clusterConfig) {
	cfg = new(clusterConfig)
	cfg.checkReplicationIntervalSec = defaultCheckReplicationIntervalSec
	cfg.workerTimeoutSec = defaultWorkerTimeoutSec
	cfg.safeModeWorkerThreshold = defaultSafeModeWorkerThreshold
	cfg.dispatchRatePerSec = defaultDispatchRatePerSec
	cfg.dispatchQueueSize = defaultDispatchQueueSize
	cfg.warnIntervalSec = defaultWarnIntervalSec
	return
}

func (cfg *clusterConfig) parse(src *config.Config) {
	cfg.checkReplicationIntervalSec = src.GetInt64WithDefault(cfgCheckReplicationIntervalSec, defaultCheckReplicationIntervalSec)
	cfg.workerTimeoutSec = src.GetInt64WithDefault(cfgWorkerTimeoutSec, defaultWorkerTimeoutSec)
	cfg.safeModeAtStart = src.GetBoolWithDefault(cfgSafeMode, true)
	cfg.safeModeScanOnly = src.GetBool(cfgSafeModeScanOnly)
	cfg.safeModeWorkerThreshold = src.GetInt64WithDefault(cfgSafeModeWorkerThreshold, defaultSafeModeWorkerThreshold)
	cfg.jobServiceAddr = src.GetString(cfgJobServiceAddr)
	cfg.dispatchRatePerSec = src.GetInt64WithDefault(cfgDispatchRatePerSec, defaultDispatchRatePerSec)
	cfg.dispatchQueueSize = src.GetInt64WithDefault(cfgDispatchQueueSize, defaultDispatchQueueSize)
	cfg.warnIntervalSec = src.GetInt64WithDefault(cfgWarnIntervalSec, defaultWarnIntervalSec)
}
