// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KeyTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "key",
		Name:      "ticks_total",
		Help:      "Total number of directory polls, per watched directory",
	}, []string{"dir"})
	KeyTickFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "key",
		Name:      "tick_failures_total",
		Help:      "Total number of failed directory polls, per watched directory",
	}, []string{"dir"})
	KeyTickSeconds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "key",
		Name:      "tick_seconds_total",
		Help:      "Total time spent polling, per watched directory",
	}, []string{"dir"})
	KeyEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "key",
		Name:      "events_total",
		Help:      "Total number of buffered observations, per watched directory and kind (CREATE/DELETE/MODIFY)",
	}, []string{"dir", "kind"})

	ServiceKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sshwatch",
		Subsystem: "service",
		Name:      "keys",
		Help:      "Number of registered watch keys",
	})
	ServiceQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sshwatch",
		Subsystem: "service",
		Name:      "signalled_keys",
		Help:      "Number of signalled keys waiting to be taken",
	})

	DaemonBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "daemon",
		Name:      "batches_total",
		Help:      "Total number of event batches handed to the handler",
	})
	DaemonEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "daemon",
		Name:      "events_total",
		Help:      "Total number of coalesced events handed to the handler, per kind",
	}, []string{"kind"})
	DaemonHandlerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "daemon",
		Name:      "handler_failures_total",
		Help:      "Total number of event batches the handler failed on",
	})
	DaemonDroppedKeys = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sshwatch",
		Subsystem: "daemon",
		Name:      "dropped_keys_total",
		Help:      "Total number of keys dropped because they became invalid",
	})
)
