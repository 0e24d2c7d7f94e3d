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
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util/config"
	"github.com/stratofs/stratofs/util/exporter"
	"github.com/stratofs/stratofs/util/log"
)

type httpServer struct {
	server *http.Server
}

func (m *Server) startHTTPService(cfg *config.Config) error {
	router := mux.NewRouter().SkipClean(true)
	m.registerAPIRoutes(router)
	exporter.InitWithRouter(m.clusterName, ModuleName, cfg, router)
	server := &http.Server{
		Addr:    ":" + m.port,
		Handler: router,
	}
	m.apiServer = &httpServer{server: server}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogErrorf("action[startHTTPService] serve failed: %v", err)
		}
	}()
	return nil
}

func (s *httpServer) shutdown(ctx context.Context) {
	if err := s.server.Shutdown(ctx); err != nil {
		log.LogWarnf("action[shutdown] api server shutdown: %v", err)
	}
}

func (m *Server) registerAPIRoutes(router *mux.Router) {
	router.NewRoute().Methods(http.MethodGet).
		Path(proto.AdminGetCluster).
		HandlerFunc(m.getCluster)
	router.NewRoute().Methods(http.MethodGet, http.MethodPost).
		Path(proto.AdminSetSafeMode).
		HandlerFunc(m.setSafeMode)
	router.NewRoute().Methods(http.MethodGet, http.MethodPost).
		Path(proto.AdminCheckReplication).
		HandlerFunc(m.checkReplication)
	router.NewRoute().Methods(http.MethodGet).
		Path(proto.AdminGetRecentJobs).
		HandlerFunc(m.getRecentJobs)

	router.NewRoute().Methods(http.MethodGet, http.MethodPost).
		Path(proto.ClientCreateFile).
		HandlerFunc(m.createFile)
	router.NewRoute().Methods(http.MethodGet, http.MethodPost).
		Path(proto.ClientCompleteFile).
		HandlerFunc(m.completeFile)
	router.NewRoute().Methods(http.MethodGet, http.MethodPost).
		Path(proto.ClientDeleteFile).
		HandlerFunc(m.deleteFile)
	router.NewRoute().Methods(http.MethodGet).
		Path(proto.ClientGetFile).
		HandlerFunc(m.getFile)
	router.NewRoute().Methods(http.MethodGet, http.MethodPost).
		Path(proto.ClientSetFilePolicy).
		HandlerFunc(m.setFilePolicy)

	router.NewRoute().Methods(http.MethodGet, http.MethodPost).
		Path(proto.AddWorker).
		HandlerFunc(m.addWorker)
	router.NewRoute().Methods(http.MethodGet).
		Path(proto.GetWorker).
		HandlerFunc(m.getWorker)
	router.NewRoute().Methods(http.MethodPost).
		Path(proto.ReportWorkerHeartbeat).
		HandlerFunc(m.workerHeartbeat)
}
