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

package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratofs/stratofs/util/config"
)

type fakeServer struct {
	started  int
	stopped  int
	startErr error
}

func (s *fakeServer) Start(cfg *config.Config) error {
	s.started++
	return s.startErr
}

func (s *fakeServer) Shutdown() {
	s.stopped++
}

func (s *fakeServer) Sync() {}

func TestControlLifecycle(t *testing.T) {
	var c Control
	s := &fakeServer{}

	require.NoError(t, c.Start(s, nil))
	require.NoError(t, c.Start(s, nil)) // second start is a no-op
	require.Equal(t, 1, s.started)

	c.Shutdown(s)
	c.Shutdown(s) // second shutdown is a no-op
	require.Equal(t, 1, s.stopped)

	c.Sync() // returns immediately once stopped
}

func TestControlStartFailureReturnsToStandby(t *testing.T) {
	var c Control
	s := &fakeServer{startErr: fmt.Errorf("listen port taken")}

	require.Error(t, c.Start(s, nil))

	s.startErr = nil
	require.NoError(t, c.Start(s, nil))
	require.Equal(t, 2, s.started)
	c.Shutdown(s)
}
