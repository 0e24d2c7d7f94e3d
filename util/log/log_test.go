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

package log

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLog(dir, "master", WarnLevel)
	require.NoError(t, err)
	defer l.Close()

	LogDebugf("debug message %v", 1)
	LogInfof("info message %v", 2)
	LogWarnf("warn message %v", 3)
	LogErrorf("error message %v", 4)

	warnData, err := os.ReadFile(path.Join(dir, "master"+WarnLogFileName))
	require.NoError(t, err)
	require.Contains(t, string(warnData), "warn message 3")
	require.Contains(t, string(warnData), "[WARN.]")

	errData, err := os.ReadFile(path.Join(dir, "master"+ErrLogFileName))
	require.NoError(t, err)
	require.Contains(t, string(errData), "error message 4")

	_, err = os.Stat(path.Join(dir, "master"+InfoLogFileName))
	if err == nil {
		infoData, _ := os.ReadFile(path.Join(dir, "master"+InfoLogFileName))
		require.Empty(t, string(infoData))
	}
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DebugLevel, ParseLevel("debug", InfoLevel))
	require.Equal(t, WarnLevel, ParseLevel("WARNING", InfoLevel))
	require.Equal(t, InfoLevel, ParseLevel("bogus", InfoLevel))
}
