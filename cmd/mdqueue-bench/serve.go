// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"math/rand/v2"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gaissmai/mdqueue"
	"github.com/gaissmai/mdqueue/internal/metrics"
	"github.com/gaissmai/mdqueue/zaplog"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a single MDList under sustained load and expose its metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := zaplog.Development()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	set := metrics.NewSet(reg, "serve")

	q := mdqueue.New[int64](cfg.Dimension, cfg.Range,
		mdqueue.WithMetrics[int64](set),
		mdqueue.WithLogger[int64](logger),
		mdqueue.WithPurgeEvery[int64](cfg.PurgeEvery),
	)
	go sustainInsertLoad(q, cfg)
	go sustainDrainLoad(q, cfg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	logger.Infof("serving metrics on %s/metrics", cfg.MetricsAddr)
	return http.ListenAndServe(cfg.MetricsAddr, mux)
}

// sustainInsertLoad keeps the queue non-empty so the metrics endpoint has
// something to show; it never stops on its own.
func sustainInsertLoad(q *mdqueue.MDList[int64], cfg Config) {
	rng := rand.New(rand.NewPCG(1, 2))
	var i int64
	for {
		q.Insert(rng.Uint64N(cfg.Range), i)
		i++
	}
}

func sustainDrainLoad(q *mdqueue.MDList[int64], cfg Config) {
	stack := mdqueue.NewStack[int64](cfg.Dimension, nil)
	for {
		guard := q.Pin()
		q.DeleteMin(stack, guard)
		guard.Release()
	}
}
