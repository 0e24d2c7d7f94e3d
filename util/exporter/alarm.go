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

import "github.com/prometheus/client_golang/prometheus"

// Warning bumps the alarm counter keyed by the warning category. The message
// itself goes to the warn log at the call site; metrics only carry the key.
func Warning(key string) {
	if !enabledPrometheus {
		return
	}
	name := metricsName("warning_total")
	collector := registerCollector(name, func() prometheus.Collector {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        name,
			ConstLabels: constLabels(),
		}, []string{"key"})
	})
	if vec, ok := collector.(*prometheus.CounterVec); ok {
		vec.WithLabelValues(replacer.Replace(key)).Inc()
	}
}
