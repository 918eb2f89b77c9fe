//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cyanic-selkie/rt-plot/config"
	"github.com/cyanic-selkie/rt-plot/etc"
	"github.com/cyanic-selkie/rt-plot/socket"
	"github.com/cyanic-selkie/rt-plot/stream"
)

const DefaultMockChannels = 2

var (
	dataConfig   *string = flag.String("dataConfig", "", "the data config file (YAML)")
	record       *string = flag.String("record", "", "tee accepted lines to this file for later replay")
	replay       *string = flag.String("replay", "", "ingest a recorded session file instead of stdin")
	mock         *bool   = flag.Bool("mock", false, "ingest a synthetic source instead of stdin")
	mockChannels *int    = flag.Int("mockChannels", DefaultMockChannels, "the number of channels of the synthetic source")
)

var c = make(chan os.Signal, 1)

func watchForInterrupt(session *stream.Session) {
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			log.Printf("terminating rt-plot (SIGINT), %d lines rejected this session", session.ParseErrors())
			os.Exit(0)
		}
	}()
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *dataConfig != "" {
		var err error
		if cfg, err = config.Load(*dataConfig); err != nil {
			log.Fatalf("could not load config: %v", err)
		}
	}

	session := stream.NewSession(cfg)
	watchForInterrupt(session)

	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			log.Fatalf("could not open recording file: %v", err)
		}
		defer f.Close()
		session.Record(f)
	}

	input, err := provideInput()
	if err != nil {
		log.Fatalf("could not open input: %v", err)
	}

	go func() {
		if err := session.Run(input); err != nil {
			log.Printf("ingestion terminated: %v", err)
		} else {
			log.Printf("end of input, %d lines rejected", session.ParseErrors())
		}
		// the store stays up for rendering and fitting
	}()

	if err := socket.NewPlotSocket(session).ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func provideInput() (io.Reader, error) {
	switch {
	case *mock:
		return etc.NewMockSource(*mockChannels, 10*time.Millisecond), nil
	case *replay != "":
		return os.Open(*replay)
	default:
		return os.Stdin, nil
	}
}
