// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package localstat

import (
	"github.com/black-desk/sshwatch/pkg/interfaces"
	"go.uber.org/zap"
)

// Provider stats directories of the local filesystem.
type Provider struct {
	log *zap.SugaredLogger
}

var _ interfaces.StatProvider = &Provider{}

func New(opts ...Opt) (ret *Provider, err error) {
	p := &Provider{}
	for i := range opts {
		p, err = opts[i](p)
		if err != nil {
			return
		}
	}

	if p.log == nil {
		p.log = zap.NewNop().Sugar()
	}

	ret = p

	p.log.Debugw("Create a new local stat provider.")
	return
}

type Opt func(p *Provider) (ret *Provider, err error)

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(p *Provider) (ret *Provider, err error) {
		p.log = log
		ret = p
		return
	}
}
