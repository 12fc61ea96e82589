// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package metrics exposes optional Prometheus instrumentation for an
// MDList instance. A nil *Set is valid and every method on it is a no-op,
// mirroring the nil-safe pool receivers in pool.go: instrumentation must
// never be on the hot path of a build that doesn't want it.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set groups the counters and gauges a single MDList instance reports.
type Set struct {
	Inserts            prometheus.Counter
	DeleteMins         prometheus.Counter
	DeleteMinEmpty     prometheus.Counter
	InsertCASRetries   prometheus.Counter
	AdoptionHelps      prometheus.Counter
	StackFastForwards  prometheus.Counter
	Purges             prometheus.Counter
	PurgeSkippedBusy   prometheus.Counter
	LiveNodes          prometheus.Gauge
}

// NewSet registers a fresh Set of instruments under reg, labelling every
// metric with the given instance name so that multiple MDList instances in
// one process (e.g. one per benchmark scenario) don't collide.
func NewSet(reg prometheus.Registerer, instance string) *Set {
	labels := prometheus.Labels{"instance": instance}
	f := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mdqueue",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		reg.MustRegister(c)
		return c
	}
	g := func(name, help string) prometheus.Gauge {
		gg := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "mdqueue",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		reg.MustRegister(gg)
		return gg
	}

	return &Set{
		Inserts:           f("inserts_total", "Number of completed Insert calls."),
		DeleteMins:        f("delete_mins_total", "Number of DeleteMin calls that returned a node."),
		DeleteMinEmpty:    f("delete_min_empty_total", "Number of DeleteMin calls that found the queue empty."),
		InsertCASRetries:  f("insert_cas_retries_total", "Number of pivot-link CAS failures that forced a retry."),
		AdoptionHelps:     f("adoption_helps_total", "Number of dimensions adopted by help_finish_insert."),
		StackFastForwards: f("stack_fast_forwards_total", "Number of rewind_stack fast-forwards behind the deletion frontier."),
		Purges:            f("purges_total", "Number of completed purge cycles."),
		PurgeSkippedBusy:  f("purge_skipped_busy_total", "Number of purge attempts that backed off because one was already in flight."),
		LiveNodes:         g("live_nodes", "Estimated number of logically live nodes."),
	}
}

func (s *Set) incInsert() {
	if s == nil {
		return
	}
	s.Inserts.Inc()
}

// IncInsert records a completed Insert.
func (s *Set) IncInsert() { s.incInsert() }

// IncDeleteMin records a DeleteMin outcome.
func (s *Set) IncDeleteMin(found bool) {
	if s == nil {
		return
	}
	if found {
		s.DeleteMins.Inc()
		return
	}
	s.DeleteMinEmpty.Inc()
}

// IncCASRetry records a pivot-link CAS failure.
func (s *Set) IncCASRetry() {
	if s == nil {
		return
	}
	s.InsertCASRetries.Inc()
}

// IncAdoptionHelp records one adopted dimension.
func (s *Set) IncAdoptionHelp() {
	if s == nil {
		return
	}
	s.AdoptionHelps.Inc()
}

// IncStackFastForward records a rewind_stack fast-forward.
func (s *Set) IncStackFastForward() {
	if s == nil {
		return
	}
	s.StackFastForwards.Inc()
}

// IncPurge records a completed purge.
func (s *Set) IncPurge() {
	if s == nil {
		return
	}
	s.Purges.Inc()
}

// IncPurgeSkippedBusy records a purge attempt that yielded to an in-flight one.
func (s *Set) IncPurgeSkippedBusy() {
	if s == nil {
		return
	}
	s.PurgeSkippedBusy.Inc()
}

// AddLiveNodes adjusts the live-node gauge by delta.
func (s *Set) AddLiveNodes(delta float64) {
	if s == nil {
		return
	}
	s.LiveNodes.Add(delta)
}
