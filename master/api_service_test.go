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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratofs/stratofs/proto"
)

func newTestServer(t *testing.T) (*Server, *mux.Router) {
	m := &Server{
		clusterName: "testCluster",
		config:      newClusterConfig(),
	}
	m.config.safeModeAtStart = false
	m.cluster = newTestCluster()
	t.Cleanup(m.cluster.stop)

	router := mux.NewRouter().SkipClean(true)
	m.registerAPIRoutes(router)
	return m, router
}

func doRequest(t *testing.T, router *mux.Router, method, url string, body []byte) *proto.HTTPReply {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	reply := &proto.HTTPReply{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), reply))
	return reply
}

func TestAPICreateAndGetFile(t *testing.T) {
	_, router := newTestServer(t)

	url := fmt.Sprintf("%v?path=/a&replicationMin=1&replicationMax=3", proto.ClientCreateFile)
	reply := doRequest(t, router, http.MethodPost, url, nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)

	reply = doRequest(t, router, http.MethodGet, proto.ClientGetFile+"?path=/a", nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)
	data := reply.Data.(map[string]interface{})
	assert.Equal(t, "/a", data["Path"])
	assert.Equal(t, float64(1), data["ReplicationMin"])
	assert.Equal(t, float64(3), data["ReplicationMax"])
	assert.Equal(t, false, data["Completed"])

	reply = doRequest(t, router, http.MethodPost, url, nil)
	assert.Equal(t, proto.ErrCodeDuplicateFileEntry, reply.Code)
}

func TestAPICreateFileRejectsBadBounds(t *testing.T) {
	_, router := newTestServer(t)

	url := fmt.Sprintf("%v?path=/a&replicationMin=3&replicationMax=1", proto.ClientCreateFile)
	reply := doRequest(t, router, http.MethodPost, url, nil)
	assert.Equal(t, proto.ErrCodeBadReplicationBound, reply.Code)

	reply = doRequest(t, router, http.MethodPost, proto.ClientCreateFile, nil)
	assert.Equal(t, proto.ErrCodeParamError, reply.Code)
}

func TestAPICompleteFile(t *testing.T) {
	_, router := newTestServer(t)

	doRequest(t, router, http.MethodPost, proto.ClientCreateFile+"?path=/a&replicationMin=1", nil)
	reply := doRequest(t, router, http.MethodPost, proto.ClientCompleteFile+"?path=/a&blockCount=2", nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)
	data := reply.Data.(map[string]interface{})
	assert.Equal(t, true, data["Completed"])
	assert.Len(t, data["Blocks"], 2)

	reply = doRequest(t, router, http.MethodPost, proto.ClientCompleteFile+"?path=/a", nil)
	assert.Equal(t, proto.ErrCodeFileAlreadyComplete, reply.Code)
}

func TestAPISetSafeMode(t *testing.T) {
	m, router := newTestServer(t)

	reply := doRequest(t, router, http.MethodPost, proto.AdminSetSafeMode+"?enable=true", nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)
	assert.False(t, m.cluster.safeMode.IsOperational())

	reply = doRequest(t, router, http.MethodPost, proto.AdminSetSafeMode, nil)
	assert.Equal(t, proto.ErrCodeParamError, reply.Code)
}

func TestAPICheckReplication(t *testing.T) {
	_, router := newTestServer(t)

	doRequest(t, router, http.MethodPost, proto.ClientCreateFile+"?path=/a&replicationMin=2", nil)
	doRequest(t, router, http.MethodPost, proto.ClientCompleteFile+"?path=/a", nil)

	reply := doRequest(t, router, http.MethodPost, proto.AdminCheckReplication, nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)
	data := reply.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["FilesScanned"])
	assert.Equal(t, float64(1), data["UnderReplicated"])
}

func TestAPIWorkerLifecycle(t *testing.T) {
	_, router := newTestServer(t)

	reply := doRequest(t, router, http.MethodPost, proto.AddWorker+"?addr=192.168.0.1:17310", nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)
	workerID := uint64(reply.Data.(float64))

	hb, err := json.Marshal(&proto.WorkerHeartbeat{
		WorkerID:    workerID,
		AddedBlocks: []uint64{1, 2},
	})
	require.NoError(t, err)
	reply = doRequest(t, router, http.MethodPost, proto.ReportWorkerHeartbeat, hb)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)

	reply = doRequest(t, router, http.MethodGet,
		fmt.Sprintf("%v?id=%v", proto.GetWorker, workerID), nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)
	data := reply.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["BlockCount"])
	assert.Equal(t, true, data["IsActive"])

	reply = doRequest(t, router, http.MethodGet, proto.GetWorker+"?id=9999", nil)
	assert.Equal(t, proto.ErrCodeWorkerNotExists, reply.Code)
}

func TestAPIGetCluster(t *testing.T) {
	_, router := newTestServer(t)

	doRequest(t, router, http.MethodPost, proto.AddWorker+"?addr=192.168.0.1:17310", nil)
	reply := doRequest(t, router, http.MethodGet, proto.AdminGetCluster, nil)
	require.Equal(t, proto.ErrCodeSuccess, reply.Code)
	data := reply.Data.(map[string]interface{})
	assert.Equal(t, "testCluster", data["Name"])
	assert.Equal(t, float64(1), data["WorkerCount"])
}
