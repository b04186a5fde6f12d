// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package telemetry registers the runtime's own Prometheus metrics on
// the default registry. Serving them over HTTP is the caller's
// responsibility — this package only defines and updates the series.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CVTWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hades",
		Subsystem: "cvt",
		Name:      "writes_total",
		Help:      "Total tag writes accepted by the current value table, by tag name.",
	}, []string{"tag"})

	AlarmTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hades",
		Subsystem: "alarm",
		Name:      "transitions_total",
		Help:      "Total alarm state transitions, by alarm name and destination state.",
	}, []string{"alarm", "state"})

	SchedulerDeadlineMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hades",
		Subsystem: "scheduler",
		Name:      "deadline_misses_total",
		Help:      "Total ticks that began after their scheduled deadline, by machine name.",
	}, []string{"machine"})

	DataLoggerQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hades",
		Subsystem: "datalogger",
		Name:      "queue_depth",
		Help:      "Current number of samples buffered awaiting the next flush.",
	})
)
