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
	"time"

	consulapi "github.com/hashicorp/consul/api"

	"github.com/stratofs/stratofs/util"
	"github.com/stratofs/stratofs/util/config"
	"github.com/stratofs/stratofs/util/log"
)

const registerPeriod = 10 * time.Minute

// consulID derives a stable service id for this exporter instance.
func consulID(app, role, host string, port int64) string {
	return fmt.Sprintf("%s_%s_%s_%d", app, role, host, port)
}

// startConsulRegister registers the metrics endpoint with a consul agent so
// prometheus can discover it. Registration repeats periodically in case the
// agent restarts. A missing consulAddr disables the whole mechanism.
func startConsulRegister(cluster, role string, cfg *config.Config, port int64) {
	consulAddr := cfg.GetString(ConfigKeyConsulAddr)
	if consulAddr == "" {
		return
	}
	host, err := util.LocalIP()
	if err != nil {
		log.LogErrorf("consul register: resolve local ip failed: %v", err)
		return
	}

	apiConfig := consulapi.DefaultConfig()
	apiConfig.Address = consulAddr
	client, err := consulapi.NewClient(apiConfig)
	if err != nil {
		log.LogErrorf("consul register: new client for %v failed: %v", consulAddr, err)
		return
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      consulID(AppName, role, host, port),
		Name:    AppName + "_" + role,
		Address: host,
		Port:    int(port),
		Tags:    []string{"app=" + AppName, "role=" + role, "cluster=" + cluster},
		Check: &consulapi.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d%s", host, port, PromHandlerPattern),
			Interval: "30s",
			Timeout:  "5s",
		},
	}

	register := func() {
		if err := client.Agent().ServiceRegister(registration); err != nil {
			log.LogWarnf("consul register to %v failed: %v", consulAddr, err)
		}
	}
	register()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.LogErrorf("consul register loop panic: %v", r)
			}
		}()
		ticker := time.NewTicker(registerPeriod)
		defer ticker.Stop()
		for range ticker.C {
			register()
		}
	}()
	log.LogInfof("consul register %v %v %v", consulAddr, cluster, port)
}
