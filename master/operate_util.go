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
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/stratofs/stratofs/util/exporter"
	"github.com/stratofs/stratofs/util/log"
)

// Warn logs the message and raises the cluster alarm counter.
func Warn(clusterID, msg string) {
	key := fmt.Sprintf("%s%s%s", clusterID, UnderlineSeparator, ModuleName)
	WarnBySpecialKey(key, msg)
}

func WarnBySpecialKey(key, msg string) {
	log.LogWarn(msg)
	exporter.Warning(key)
}

var (
	warnHistory     *lru.Cache
	warnHistoryOnce sync.Once
	warnInterval    = int64(defaultWarnIntervalSec)
)

func setWarnInterval(sec int64) {
	if sec > 0 {
		warnInterval = sec
	}
}

// warnWithInterval is Warn with per-message-key suppression: a repeated
// condition (one lost block warned about every pass) only alarms once per
// interval. Suppression state is best-effort and bounded by the lru size.
func warnWithInterval(clusterID, category, msg string) {
	warnHistoryOnce.Do(func() {
		warnHistory, _ = lru.New(4096)
	})
	key := fmt.Sprintf("%s%s%s%s%s", clusterID, UnderlineSeparator, category, UnderlineSeparator, msg)
	now := time.Now().Unix()
	if value, ok := warnHistory.Get(key); ok {
		if now-value.(int64) < warnInterval {
			log.LogDebugf("action[warnWithInterval] suppressed: %v", msg)
			return
		}
	}
	warnHistory.Add(key, now)
	Warn(clusterID, fmt.Sprintf("action[%v] %v", category, msg))
}
