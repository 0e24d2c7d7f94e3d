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

type Gauge struct {
	name string
}

func NewGauge(name string) *Gauge {
	return &Gauge{name: metricsName(name)}
}

func (g *Gauge) Set(val int64) {
	if !enabledPrometheus {
		return
	}
	collector := registerCollector(g.name, func() prometheus.Collector {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        g.name,
			ConstLabels: constLabels(),
		})
	})
	if gauge, ok := collector.(prometheus.Gauge); ok {
		gauge.Set(float64(val))
	}
}
