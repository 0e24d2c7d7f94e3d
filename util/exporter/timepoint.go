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

package exporter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TimePoint measures one operation's wall time into a summary metric.
type TimePoint struct {
	name  string
	start time.Time
}

func NewTP(name string) *TimePoint {
	return &TimePoint{name: metricsName(name + "_duration_seconds"), start: time.Now()}
}

// Set records the elapsed time since NewTP.
func (tp *TimePoint) Set() {
	if !enabledPrometheus {
		return
	}
	collector := registerCollector(tp.name, func() prometheus.Collector {
		return prometheus.NewSummary(prometheus.SummaryOpts{
			Name:        tp.name,
			ConstLabels: constLabels(),
		})
	})
	if summary, ok := collector.(prometheus.Summary); ok {
		summary.Observe(time.Since(tp.start).Seconds())
	}
}
