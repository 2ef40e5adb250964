// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshstat

import (
	"bytes"

	"github.com/black-desk/sshwatch/pkg/interfaces"
	"github.com/black-desk/sshwatch/pkg/pool"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// Provider stats directories on a remote host by running find(1)
// in a new session of an established ssh connection.
type Provider struct {
	client  *ssh.Client
	log     *zap.SugaredLogger
	buffers *pool.Pool[*bytes.Buffer]
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

	if p.client == nil {
		err = ErrClientMissing
		return
	}

	if p.log == nil {
		p.log = zap.NewNop().Sugar()
	}

	p.buffers = pool.New(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) *bytes.Buffer { b.Reset(); return b },
	)

	ret = p

	p.log.Debugw("Create a new ssh stat provider.",
		"remote", p.client.RemoteAddr().String(),
	)
	return
}

type Opt func(p *Provider) (ret *Provider, err error)

func WithClient(client *ssh.Client) Opt {
	return func(p *Provider) (ret *Provider, err error) {
		if client == nil {
			err = ErrClientMissing
			return
		}
		p.client = client
		ret = p
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(p *Provider) (ret *Provider, err error) {
		p.log = log
		ret = p
		return
	}
}
