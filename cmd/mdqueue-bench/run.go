// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaissmai/mdqueue"
	"github.com/gaissmai/mdqueue/internal/metrics"
	"github.com/gaissmai/mdqueue/zaplog"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a mixed producer/consumer workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload(cmd.Context(), configPath)
		},
	}
}

func runWorkload(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := zaplog.Development()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	set := metrics.NewSet(reg, "bench")

	q := mdqueue.New[int64](cfg.Dimension, cfg.Range,
		mdqueue.WithMetrics[int64](set),
		mdqueue.WithLogger[int64](logger),
		mdqueue.WithPurgeEvery[int64](cfg.PurgeEvery),
	)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	var producing atomic.Int64
	producing.Store(int64(cfg.Producers))

	for p := range cfg.Producers {
		g.Go(func() error {
			defer producing.Add(-1)
			rng := rand.New(rand.NewPCG(uint64(p), 42))
			for i := range cfg.OpsPerProducer {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				key := rng.Uint64N(cfg.Range)
				q.Insert(key, int64(i))
			}
			return nil
		})
	}

	for range cfg.Consumers {
		g.Go(func() error {
			stack := mdqueue.NewStack[int64](cfg.Dimension, nil)
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				guard := q.Pin()
				ptr := q.DeleteMin(stack, guard)
				empty := ptr.IsZero()
				guard.Release()
				if empty {
					if producing.Load() == 0 {
						return nil
					}
					time.Sleep(time.Millisecond)
					continue
				}
			}
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Infof("workload finished in %s", time.Since(start))
	return nil
}
