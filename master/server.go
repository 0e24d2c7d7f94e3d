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
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util/config"
	"github.com/stratofs/stratofs/util/errors"
	"github.com/stratofs/stratofs/util/log"
)

// Server is the replication master role.
type Server struct {
	clusterName string
	port        string
	config      *clusterConfig
	cluster     *Cluster
	apiServer   *httpServer
	wg          sync.WaitGroup
}

func NewServer() *Server {
	return &Server{}
}

func (m *Server) Start(cfg *config.Config) (err error) {
	m.config = newClusterConfig()
	if err = m.checkConfig(cfg); err != nil {
		log.LogError(errors.Stack(err))
		return
	}
	m.cluster = newCluster(m.clusterName, m.config, clock.New())
	m.cluster.scheduleTask()
	if err = m.startHTTPService(cfg); err != nil {
		log.LogError(errors.Stack(err))
		return
	}
	m.wg.Add(1)
	log.LogInfof("action[Start] cluster[%v] master started on :%v", m.clusterName, m.port)
	return nil
}

func (m *Server) Shutdown() {
	if m.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		m.apiServer.shutdown(ctx)
		cancel()
	}
	if m.cluster != nil {
		m.cluster.stop()
	}
	m.wg.Done()
}

func (m *Server) Sync() {
	m.wg.Wait()
}

func (m *Server) checkConfig(cfg *config.Config) (err error) {
	m.clusterName = cfg.GetString(ClusterName)
	m.port = cfg.GetString(Listen)
	if m.clusterName == "" || m.port == "" {
		return errors.Trace(proto.ErrInvalidCfg, "clusterName or listen missing")
	}
	m.config.parse(cfg)
	return nil
}
