// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshwatch

import (
	"context"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/sourcegraph/conc/pool"
)

// Run registers every configured watch, then consumes events
// until ctx is done. The watch service is closed on return.
func (d *Daemon) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "running sshwatch daemon")

	err = d.register(ctx)
	if err != nil {
		closeErr := d.service.Close()
		if closeErr != nil {
			d.log.Errorw("Failed to close watch service.",
				"error", closeErr,
			)
		}
		return
	}

	pool := pool.New().
		WithContext(ctx).
		WithCancelOnError()

	pool.Go(d.runWatchService)
	pool.Go(d.runConsumer)

	if d.cfg.Metrics != nil {
		pool.Go(d.runMetricsServer)
	}

	return pool.Wait()
}
