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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util/log"
)

func (m *Server) getCluster(w http.ResponseWriter, r *http.Request) {
	sendOkReply(w, r, newSuccessHTTPReply(m.cluster.clusterView()))
}

func (m *Server) setSafeMode(w http.ResponseWriter, r *http.Request) {
	enable, err := extractBool(r, paraEnable)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	m.cluster.safeMode.setSafeMode(enable)
	sendOkReply(w, r, newSuccessHTTPReply(fmt.Sprintf("safe mode set to %v", enable)))
}

// checkReplication triggers one reconciliation pass and returns its
// summary. Concurrent triggers share the in-flight pass.
func (m *Server) checkReplication(w http.ResponseWriter, r *http.Request) {
	m.cluster.checker.Heartbeat()
	sendOkReply(w, r, newSuccessHTTPReply(m.cluster.checker.LastPass()))
}

func (m *Server) getRecentJobs(w http.ResponseWriter, r *http.Request) {
	sendOkReply(w, r, newSuccessHTTPReply(m.cluster.dispatcher.RecentJobs()))
}

func (m *Server) createFile(w http.ResponseWriter, r *http.Request) {
	path, err := extractString(r, paraPath)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	replicationMin := extractIntWithDefault(r, paraReplicationMin, 0)
	replicationMax := extractIntWithDefault(r, paraReplicationMax, proto.ReplicationMaxUnbounded)
	entry, err := m.cluster.namespace.createFileEntry(m.cluster.allocateID(), path, replicationMin, replicationMax)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	sendOkReply(w, r, newSuccessHTTPReply(entry.info()))
}

func (m *Server) completeFile(w http.ResponseWriter, r *http.Request) {
	path, err := extractString(r, paraPath)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	blockCount := extractIntWithDefault(r, paraBlockCount, 1)
	if blockCount < 0 {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	blocks := m.cluster.allocateBlockIDs(blockCount)
	if err = m.cluster.namespace.completeFileEntry(path, blocks); err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	entry, err := m.cluster.namespace.getFileEntry(path)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	sendOkReply(w, r, newSuccessHTTPReply(entry.info()))
}

func (m *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	path, err := extractString(r, paraPath)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	if err = m.cluster.namespace.deleteFileEntry(path); err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	sendOkReply(w, r, newSuccessHTTPReply(fmt.Sprintf("file[%v] deleted", path)))
}

func (m *Server) getFile(w http.ResponseWriter, r *http.Request) {
	path, err := extractString(r, paraPath)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	entry, err := m.cluster.namespace.getFileEntry(path)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	sendOkReply(w, r, newSuccessHTTPReply(entry.info()))
}

func (m *Server) setFilePolicy(w http.ResponseWriter, r *http.Request) {
	path, err := extractString(r, paraPath)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	replicationMin := extractIntWithDefault(r, paraReplicationMin, 0)
	replicationMax := extractIntWithDefault(r, paraReplicationMax, proto.ReplicationMaxUnbounded)
	if err = m.cluster.namespace.setFilePolicy(path, replicationMin, replicationMax); err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	sendOkReply(w, r, newSuccessHTTPReply(fmt.Sprintf("policy of file[%v] set to [%v,%v]",
		path, replicationMin, replicationMax)))
}

func (m *Server) addWorker(w http.ResponseWriter, r *http.Request) {
	addr, err := extractString(r, paraAddr)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	id, err := m.cluster.addWorker(addr)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	sendOkReply(w, r, newSuccessHTTPReply(id))
}

func (m *Server) getWorker(w http.ResponseWriter, r *http.Request) {
	id, err := extractUint64(r, paraID)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	worker, err := m.cluster.getWorker(id)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	worker.RLock()
	info := proto.WorkerInfo{
		ID:         worker.ID,
		Addr:       worker.Addr,
		ReportTime: worker.ReportTime.Unix(),
		IsActive:   worker.isActive,
		BlockCount: m.cluster.blockIndex.workerBlockCount(worker.ID),
	}
	worker.RUnlock()
	sendOkReply(w, r, newSuccessHTTPReply(info))
}

func (m *Server) workerHeartbeat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	hb := &proto.WorkerHeartbeat{}
	if err = json.Unmarshal(body, hb); err != nil {
		sendErrReply(w, r, newErrHTTPReply(proto.ErrParamError))
		return
	}
	if err = m.cluster.workerHeartbeat(hb); err != nil {
		sendErrReply(w, r, newErrHTTPReply(err))
		return
	}
	sendOkReply(w, r, newSuccessHTTPReply("heartbeat accepted"))
}

func extractString(r *http.Request, key string) (string, error) {
	value := r.FormValue(key)
	if value == "" {
		return "", keyNotFound(key)
	}
	return value, nil
}

func extractBool(r *http.Request, key string) (bool, error) {
	value := r.FormValue(key)
	if value == "" {
		return false, keyNotFound(key)
	}
	return strconv.ParseBool(value)
}

func extractUint64(r *http.Request, key string) (uint64, error) {
	value := r.FormValue(key)
	if value == "" {
		return 0, keyNotFound(key)
	}
	return strconv.ParseUint(value, 10, 64)
}

func extractIntWithDefault(r *http.Request, key string, def int) int {
	value := r.FormValue(key)
	if value == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func keyNotFound(key string) error {
	return fmt.Errorf("parameter %v not found", key)
}

func newSuccessHTTPReply(data interface{}) *proto.HTTPReply {
	return &proto.HTTPReply{Code: proto.ErrCodeSuccess, Msg: proto.ErrSuc.Error(), Data: data}
}

func newErrHTTPReply(err error) *proto.HTTPReply {
	if err == nil {
		return newSuccessHTTPReply("")
	}
	if code, ok := proto.Err2CodeMap[err]; ok {
		return &proto.HTTPReply{Code: code, Msg: err.Error()}
	}
	return &proto.HTTPReply{Code: proto.ErrCodeInternalError, Msg: err.Error()}
}

func sendOkReply(w http.ResponseWriter, r *http.Request, httpReply *proto.HTTPReply) {
	reply, err := json.Marshal(httpReply)
	if err != nil {
		log.LogErrorf("fail to marshal http reply[%v]. URL[%v],remoteAddr[%v] err:[%v]",
			httpReply, r.URL, r.RemoteAddr, err)
		http.Error(w, "fail to marshal http reply", http.StatusBadRequest)
		return
	}
	send(w, r, reply)
}

func send(w http.ResponseWriter, r *http.Request, reply []byte) {
	w.Header().Set("content-type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(reply)))
	if _, err := w.Write(reply); err != nil {
		log.LogErrorf("fail to write http reply[%s] len[%d].URL[%v],remoteAddr[%v] err:[%v]",
			string(reply), len(reply), r.URL, r.RemoteAddr, err)
	}
}

func sendErrReply(w http.ResponseWriter, r *http.Request, httpReply *proto.HTTPReply) {
	log.LogInfof("URL[%v],remoteAddr[%v],response err[%v]", r.URL, r.RemoteAddr, httpReply)
	reply, err := json.Marshal(httpReply)
	if err != nil {
		log.LogErrorf("fail to marshal http reply[%v]. URL[%v],remoteAddr[%v] err:[%v]",
			httpReply, r.URL, r.RemoteAddr, err)
		http.Error(w, "fail to marshal http reply", http.StatusBadRequest)
		return
	}
	send(w, r, reply)
}
