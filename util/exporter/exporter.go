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
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stratofs/stratofs/util/config"
	"github.com/stratofs/stratofs/util/log"
)

const (
	PromHandlerPattern      = "/metrics"        // prometheus handler
	AppName                 = "sfs"             // app name
	ConfigKeyExporterEnable = "exporterEnable"  // exporter enable
	ConfigKeyExporterPort   = "exporterPort"    // exporter port
	ConfigKeyConsulAddr     = "consulAddr"      // consul agent addr
)

var (
	namespace         string
	clustername       string
	modulename        string
	enabledPrometheus bool
	replacer          = strings.NewReplacer("-", "_", ".", "_", " ", "_", ",", "_", ":", "_")
)

func metricsName(name string) string {
	if len(namespace) > 0 {
		return replacer.Replace(fmt.Sprintf("%s_%s", namespace, name))
	}
	return replacer.Replace(name)
}

// Init starts a standalone metrics endpoint on the configured exporter port.
func Init(cluster, role string, cfg *config.Config) {
	clustername = replacer.Replace(cluster)
	modulename = role
	if !cfg.GetBoolWithDefault(ConfigKeyExporterEnable, true) {
		log.LogInfof("%v exporter disabled", role)
		return
	}
	port := cfg.GetInt64(ConfigKeyExporterPort)
	if port == 0 {
		log.LogInfof("%v exporter port not set", role)
		return
	}

	namespace = AppName + "_" + role
	enabledPrometheus = true
	http.Handle(PromHandlerPattern, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		Timeout: 5 * time.Second,
	}))
	server := &http.Server{Addr: fmt.Sprintf(":%d", port)}
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.LogError("exporter http serve error: ", err)
		}
	}()

	startConsulRegister(cluster, role, cfg, port)
	NewGauge("start_time").Set(time.Now().Unix() * 1000)
	log.LogInfof("exporter [cluster: %v, role: %v, port: %v] inited", clustername, modulename, port)
}

// InitWithRouter hangs the metrics endpoint off the service's own router
// instead of a dedicated port.
func InitWithRouter(cluster, role string, cfg *config.Config, router *mux.Router) {
	clustername = replacer.Replace(cluster)
	modulename = role
	if !cfg.GetBoolWithDefault(ConfigKeyExporterEnable, true) {
		log.LogInfof("%v exporter disabled", role)
		return
	}
	namespace = AppName + "_" + role
	enabledPrometheus = true
	router.NewRoute().Name("metrics").
		Methods(http.MethodGet).
		Path(PromHandlerPattern).
		Handler(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			Timeout: 5 * time.Second,
		}))
	NewGauge("start_time").Set(time.Now().Unix() * 1000)
	log.LogInfof("exporter [cluster: %v, role: %v] inited on service router", clustername, modulename)
}

var (
	metricGroups sync.Map
	registerLock sync.Mutex
)

func registerCollector(key string, newC func() prometheus.Collector) prometheus.Collector {
	if actual, ok := metricGroups.Load(key); ok {
		return actual.(prometheus.Collector)
	}
	registerLock.Lock()
	defer registerLock.Unlock()
	if actual, ok := metricGroups.Load(key); ok {
		return actual.(prometheus.Collector)
	}
	c := newC()
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			c = are.ExistingCollector
		} else {
			log.LogErrorf("exporter register metric %v failed: %v", key, err)
		}
	}
	metricGroups.Store(key, c)
	return c
}

func constLabels() prometheus.Labels {
	return prometheus.Labels{"cluster": clustername}
}
