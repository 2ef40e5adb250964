// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Opt func(cfg *loader) (ret *loader, err error)

type loader struct {
	content []byte
	log     *zap.SugaredLogger
}

func New(opts ...Opt) (ret *Config, err error) {
	defer Wrap(&err, "load configuration")

	l := &loader{}
	for i := range opts {
		l, err = opts[i](l)
		if err != nil {
			return
		}
	}

	if l.content == nil {
		err = ErrContentMissing
		return
	}

	cfg := &Config{}
	cfg.log = l.log
	if cfg.log == nil {
		cfg.log = zap.NewNop().Sugar()
	}

	err = yaml.Unmarshal(l.content, cfg)
	if err != nil {
		Wrap(&err, "unmarshal configuration")
		return
	}

	err = cfg.check()
	if err != nil {
		return
	}

	ret = cfg

	cfg.log.Debugw("Configuration loaded.",
		"transport", cfg.Transport,
		"interval", cfg.Interval,
		"watches", len(cfg.Watches),
	)
	return
}

func WithContent(content []byte) Opt {
	return func(l *loader) (ret *loader, err error) {
		l.content = content
		ret = l
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(l *loader) (ret *loader, err error) {
		l.log = log
		ret = l
		return
	}
}
