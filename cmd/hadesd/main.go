// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command hadesd loads a runtime configuration file and runs the
// Supervisor (internal/app) until interrupted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hades-rt/hades-core/internal/app"
	"github.com/hades-rt/hades-core/internal/config"
	"github.com/hades-rt/hades-core/internal/notify"
	"github.com/hades-rt/hades-core/pkg/log"
)

func main() {
	var (
		configFile = flag.String("config", "./config.yaml", "path to the runtime configuration file")
		envFile    = flag.String("env", "", "optional .env file consulted for ${VAR} expansion")
		production = flag.Bool("production", false, "use db.prod_mode instead of db.dev_mode")
		natsAddr   = flag.String("nats", "", "if set, publish runtime events to this NATS server")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		log.Fatalf("hadesd: loading %q: %s", *configFile, err.Error())
	}

	a := app.New()
	if *production {
		a.SetMode(app.Production)
	}

	if *natsAddr != "" {
		sink, err := notify.NewNATSSink(notify.NATSConfig{Address: *natsAddr})
		if err != nil {
			log.Fatalf("hadesd: connecting to nats at %q: %s", *natsAddr, err.Error())
		}
		a.SetNotifier(sink)
		defer sink.Close()
	}

	if err := a.SetDBFromConfigFile(*configFile); err != nil {
		log.Fatalf("hadesd: %s", err.Error())
	}

	sampleTime := time.Duration(cfg.DB.SampleTime * float64(time.Second))
	initDelay := time.Duration(cfg.DB.InitDelay * float64(time.Second))

	tags := make(map[string]config.TagDef)
	for _, group := range cfg.Modules.Tags.Groups {
		for key, t := range group {
			tags[key] = t
		}
	}
	for key, t := range cfg.Modules.Engine.Tags {
		tags[key] = t
	}
	if err := a.SetDBTags(tags, sampleTime, initDelay); err != nil {
		log.Fatalf("hadesd: registering tags: %s", err.Error())
	}

	if err := a.DefineAlarmFromConfigFile(*configFile); err != nil {
		log.Fatalf("hadesd: defining alarms: %s", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Print("hadesd: shutting down")
		cancel()
	}()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("hadesd: %s", err.Error())
	}
	log.Print("hadesd: graceful shutdown completed")
}
