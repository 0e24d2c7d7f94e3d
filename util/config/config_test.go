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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testConfigStr = `
# master config
{
    "clusterName": "stratofs-test",
    "listen": "17010",
    "safeMode": true,
    "checkReplicationIntervalSec": 30
}
`

func TestLoadConfigString(t *testing.T) {
	cfg, err := LoadConfigString(testConfigStr)
	require.NoError(t, err)
	require.Equal(t, "stratofs-test", cfg.GetString("clusterName"))
	require.Equal(t, "17010", cfg.GetString("listen"))
	require.True(t, cfg.GetBool("safeMode"))
	require.Equal(t, int64(30), cfg.GetInt64("checkReplicationIntervalSec"))
	require.Equal(t, int64(60), cfg.GetInt64WithDefault("missingKey", 60))
	require.False(t, cfg.GetBoolWithDefault("exporterEnable", false))
	require.True(t, cfg.HasKey("safeMode"))
	require.False(t, cfg.HasKey("walDir"))
}

func TestLoadBadConfig(t *testing.T) {
	_, err := LoadConfigString(`{"clusterName": }`)
	require.Error(t, err)
}
