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

package util

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stratofs/stratofs/util/log"
)

const TaskWaitResponseTimeOut = 2 * time.Second

// PostToNode sends a JSON payload to another node and returns the raw body.
func PostToNode(data []byte, url string) (msg []byte, err error) {
	log.LogDebugf("action[PostToNode],url:%v,send data:%v", url, string(data))
	client := &http.Client{Timeout: TaskWaitResponseTimeOut}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Connection", "close")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	msg, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return msg, fmt.Errorf("action[PostToNode] url:%v status code:%v", url, resp.StatusCode)
	}
	return msg, nil
}
