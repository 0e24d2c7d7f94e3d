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
	"sync"
	"sync/atomic"

	"github.com/stratofs/stratofs/util/config"
)

const (
	stateStandby uint32 = iota
	stateStarting
	stateRunning
	stateShutdown
	stateStopped
)

// Server is the runnable role of the process. The master is the only role
// today; the contract stays role-agnostic so the entrypoint does not care.
type Server interface {
	Start(cfg *config.Config) error
	Shutdown()
	// Sync blocks the invoker goroutine until the server shuts down.
	Sync()
}

// Control serializes the start/shutdown lifecycle around a server, so a
// repeated signal or a retried start after failure stays harmless.
type Control struct {
	state uint32
	wg    sync.WaitGroup
}

func (c *Control) Start(s Server, cfg *config.Config) (err error) {
	if !atomic.CompareAndSwapUint32(&c.state, stateStandby, stateStarting) {
		return nil
	}
	if err = s.Start(cfg); err != nil {
		atomic.StoreUint32(&c.state, stateStandby)
		return
	}
	c.wg.Add(1)
	atomic.StoreUint32(&c.state, stateRunning)
	return nil
}

func (c *Control) Shutdown(s Server) {
	if atomic.CompareAndSwapUint32(&c.state, stateRunning, stateShutdown) {
		s.Shutdown()
		c.wg.Done()
		atomic.StoreUint32(&c.state, stateStopped)
	}
}

func (c *Control) Sync() {
	if atomic.LoadUint32(&c.state) == stateRunning {
		c.wg.Wait()
	}
}
