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

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stratofs/stratofs/cmd/common"
	"github.com/stratofs/stratofs/master"
	"github.com/stratofs/stratofs/util/config"
	"github.com/stratofs/stratofs/util/log"
)

const (
	configKeyRole     = "role"
	configKeyLogDir   = "logDir"
	configKeyLogLevel = "logLevel"

	roleMaster = "master"
)

var configFile = flag.String("c", "", "config file path")

func main() {
	flag.Parse()
	if *configFile == "" {
		fmt.Println("usage: stratofs -c <config file>")
		os.Exit(1)
	}
	cfg, err := config.LoadConfigFile(*configFile)
	if err != nil {
		fmt.Printf("load config file %v failed: %v\n", *configFile, err)
		os.Exit(1)
	}

	role := cfg.GetString(configKeyRole)
	if role != roleMaster {
		fmt.Printf("unknown role %q, only %q is supported\n", role, roleMaster)
		os.Exit(1)
	}

	logDir := cfg.GetString(configKeyLogDir)
	if logDir == "" {
		logDir = "logs"
	}
	level := log.ParseLevel(cfg.GetString(configKeyLogLevel), log.InfoLevel)
	logger, err := log.NewLog(logDir, role, level)
	if err != nil {
		fmt.Printf("init log in %v failed: %v\n", logDir, err)
		os.Exit(1)
	}
	defer logger.Close()

	server := master.NewServer()
	var control common.Control
	if err = control.Start(server, cfg); err != nil {
		log.LogErrorf("start %v failed: %v", role, err)
		fmt.Printf("start %v failed: %v\n", role, err)
		os.Exit(1)
	}

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalC
		log.LogInfof("received signal %v, shutting down", sig)
		control.Shutdown(server)
	}()

	control.Sync()
}
