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
	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util/exporter"
)

type replicationMetrics struct {
	passCount       *exporter.Counter
	filesScanned    *exporter.Gauge
	blocksScanned   *exporter.Gauge
	underReplicated *exporter.Gauge
	overReplicated  *exporter.Gauge
	lostBlocks      *exporter.Gauge
	dispatched      *exporter.Counter
	dispatchFailed  *exporter.Counter
}

func newReplicationMetrics() *replicationMetrics {
	return &replicationMetrics{
		passCount:       exporter.NewCounter("replication_pass_total"),
		filesScanned:    exporter.NewGauge("replication_files_scanned"),
		blocksScanned:   exporter.NewGauge("replication_blocks_scanned"),
		underReplicated: exporter.NewGauge("replication_under_replicated_blocks"),
		overReplicated:  exporter.NewGauge("replication_over_replicated_blocks"),
		lostBlocks:      exporter.NewGauge("replication_lost_blocks"),
		dispatched:      exporter.NewCounter("replication_jobs_dispatched_total"),
		dispatchFailed:  exporter.NewCounter("replication_jobs_dispatch_failed_total"),
	}
}

func (m *replicationMetrics) record(view *proto.ReplicationPassView) {
	m.passCount.Inc()
	m.filesScanned.Set(int64(view.FilesScanned))
	m.blocksScanned.Set(int64(view.BlocksScanned))
	m.underReplicated.Set(int64(view.UnderReplicated))
	m.overReplicated.Set(int64(view.OverReplicated))
	m.lostBlocks.Set(int64(view.LostBlocks))
	m.dispatched.Add(int64(view.Dispatched))
	m.dispatchFailed.Add(int64(view.DispatchFailed))
}
