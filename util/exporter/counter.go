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

type Counter struct {
	name string
}

func NewCounter(name string) *Counter {
	return &Counter{name: metricsName(name)}
}

func (c *Counter) Add(val int64) {
	if !enabledPrometheus {
		return
	}
	collector := registerCollector(c.name, func() prometheus.Collector {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Name:        c.name,
			ConstLabels: constLabels(),
		})
	})
	if counter, ok := collector.(prometheus.Counter); ok {
		counter.Add(float64(val))
	}
}

func (c *Counter) Inc() {
	c.Add(1)
}
