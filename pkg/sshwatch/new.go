// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshwatch

import (
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/interfaces"
	"github.com/black-desk/sshwatch/pkg/sshwatch/config"
	"github.com/black-desk/sshwatch/pkg/watchservice"
	"go.uber.org/zap"
)

// Daemon registers the configured watches on a watch service
// and hands every batch of events to a handler.
type Daemon struct {
	cfg *config.Config

	log *zap.SugaredLogger

	service *watchservice.WatchService
	handler interfaces.Handler
}

type Opt = (func(*Daemon) (*Daemon, error))

func New(opts ...Opt) (ret *Daemon, err error) {
	defer Wrap(&err, "create new sshwatch daemon")

	d := &Daemon{}
	for i := range opts {
		d, err = opts[i](d)
		if err != nil {
			d = nil
			return
		}
	}

	if d.log == nil {
		d.log = zap.NewNop().Sugar()
	}

	if d.cfg == nil {
		err = ErrConfigMissing
		return
	}

	if d.service == nil {
		err = ErrWatchServiceMissing
		return
	}

	if d.handler == nil {
		err = ErrHandlerMissing
		return
	}

	ret = d

	d.log.Debugw("Create a new daemon.",
		"transport", d.cfg.Transport,
		"watches", len(d.cfg.Watches),
	)

	return
}

func WithConfig(cfg *config.Config) Opt {
	return func(d *Daemon) (ret *Daemon, err error) {
		d.cfg = cfg
		ret = d
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(d *Daemon) (ret *Daemon, err error) {
		d.log = log
		ret = d
		return
	}
}

func WithWatchService(s *watchservice.WatchService) Opt {
	return func(d *Daemon) (ret *Daemon, err error) {
		d.service = s
		ret = d
		return
	}
}

func WithHandler(h interfaces.Handler) Opt {
	return func(d *Daemon) (ret *Daemon, err error) {
		d.handler = h
		ret = d
		return
	}
}
