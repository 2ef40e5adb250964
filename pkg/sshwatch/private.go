// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshwatch

import (
	"context"
	"errors"
	"net/http"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/metrics"
	"github.com/black-desk/sshwatch/pkg/watchkey"
	"github.com/black-desk/sshwatch/pkg/watchservice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (d *Daemon) register(ctx context.Context) (err error) {
	defer Wrap(&err, "register watches")

	for i := range d.cfg.Watches {
		w := d.cfg.Watches[i]

		opts := []watchservice.RegisterOpt{
			watchservice.WithKeyInterval(w.Interval),
			watchservice.WithReportExisting(w.ReportExisting),
			watchservice.WithIgnore(w.Ignore...),
		}
		if kinds := w.EventKinds(); len(kinds) != 0 {
			opts = append(opts, watchservice.WithKinds(kinds...))
		}

		_, err = d.service.Register(ctx, w.Path, opts...)
		if err != nil {
			return
		}

		d.log.Infow("Watching directory.",
			"watch", w.String(),
		)
	}

	return
}

func (d *Daemon) runWatchService(ctx context.Context) (err error) {
	defer d.log.Debugw("Watch service exited.")

	d.log.Debugw("Start watch service.")

	err = d.service.Run(ctx)
	if err != nil {
		return
	}

	return ctx.Err()
}

func (d *Daemon) runConsumer(ctx context.Context) (err error) {
	defer d.log.Debugw("Consumer exited.")

	d.log.Debugw("Start consumer.")

	for {
		var k *watchkey.Key
		k, err = d.service.Take(ctx)
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		if err != nil {
			return
		}

		d.consume(k)
	}
}

func (d *Daemon) consume(k *watchkey.Key) {
	events := k.PollEvents()

	if len(events) != 0 {
		metrics.DaemonBatches.Inc()
		for i := range events {
			metrics.DaemonEvents.WithLabelValues(events[i].Kind.String()).
				Add(float64(events[i].Count))
		}

		err := d.handler.HandleEvents(k.Watchable(), events)
		if err != nil {
			metrics.DaemonHandlerFailures.Inc()
			d.log.Errorw("Failed to handle events.",
				"dir", k.Watchable(),
				"events", len(events),
				"error", err,
			)
		}
	}

	if k.Reset() {
		return
	}

	metrics.DaemonDroppedKeys.Inc()
	d.log.Warnw("Watch key is no longer valid, dropped.",
		"dir", k.Watchable(),
		"key", k.ID(),
	)
}

func (d *Daemon) runMetricsServer(ctx context.Context) (err error) {
	defer d.log.Debugw("Metrics server exited.")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    d.cfg.Metrics.Address,
		Handler: mux,
	}

	stop := context.AfterFunc(ctx, func() {
		server.Close()
	})
	defer stop()

	d.log.Infow("Serving metrics.",
		"address", d.cfg.Metrics.Address,
	)

	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}

	Wrap(&err, "serve metrics on %s", d.cfg.Metrics.Address)
	return
}
