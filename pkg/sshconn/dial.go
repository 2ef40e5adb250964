// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sshconn establishes the ssh connection remote directories are
// polled over.
package sshconn

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/sshwatch/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Dial connects and authenticates to the host described by cfg.
// Host keys are checked against cfg.KnownHosts
// unless cfg.InsecureIgnoreHostKey is set.
func Dial(
	ctx context.Context, cfg *config.SSH, log *zap.SugaredLogger,
) (
	ret *ssh.Client, err error,
) {
	if cfg == nil {
		err = ErrConfigMissing
		return
	}

	defer Wrap(&err, "dial ssh server %s", cfg.Address)

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var clientConfig *ssh.ClientConfig
	clientConfig, err = clientConfigFor(cfg, log)
	if err != nil {
		return
	}

	log.Debugw("Dialing ssh server.",
		"address", cfg.Address,
		"user", cfg.User,
	)

	dialer := net.Dialer{Timeout: cfg.Timeout}

	var conn net.Conn
	conn, err = dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		if ctx.Err() != nil {
			err = context.Cause(ctx)
		}
		return
	}

	// The handshake has no context, bound it with the same deadline.
	if cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(cfg.Timeout))
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var (
		c     ssh.Conn
		chans <-chan ssh.NewChannel
		reqs  <-chan *ssh.Request
	)
	c, chans, reqs, err = ssh.NewClientConn(conn, cfg.Address, clientConfig)
	if err != nil {
		conn.Close()
		if ctx.Err() != nil {
			err = context.Cause(ctx)
		}
		return
	}

	_ = conn.SetDeadline(time.Time{})

	ret = ssh.NewClient(c, chans, reqs)

	log.Infow("Connected to ssh server.",
		"address", cfg.Address,
		"user", cfg.User,
		"server version", string(c.ServerVersion()),
	)
	return
}

func clientConfigFor(
	cfg *config.SSH, log *zap.SugaredLogger,
) (
	ret *ssh.ClientConfig, err error,
) {
	ret = &ssh.ClientConfig{
		User:    cfg.User,
		Timeout: cfg.Timeout,
	}

	if cfg.IdentityFile != "" {
		var signer ssh.Signer
		signer, err = loadIdentity(cfg.IdentityFile, cfg.Password)
		if err != nil {
			return
		}
		ret.Auth = append(ret.Auth, ssh.PublicKeys(signer))
	}

	if cfg.Password != "" {
		ret.Auth = append(ret.Auth, ssh.Password(cfg.Password))
	}

	if len(ret.Auth) == 0 {
		err = ErrNoAuthMethod
		return
	}

	if cfg.InsecureIgnoreHostKey {
		log.Warnw("Host key of ssh server will not be checked.",
			"address", cfg.Address,
		)
		ret.HostKeyCallback = ssh.InsecureIgnoreHostKey()
		return
	}

	ret.HostKeyCallback, err = knownhosts.New(cfg.KnownHosts)
	if err != nil {
		Wrap(&err, "load known hosts from %s", cfg.KnownHosts)
		return
	}

	return
}

// loadIdentity reads a private key. An encrypted key is decrypted
// with passphrase.
func loadIdentity(path, passphrase string) (ret ssh.Signer, err error) {
	defer Wrap(&err, "load identity file %s", path)

	var content []byte
	content, err = os.ReadFile(path)
	if err != nil {
		return
	}

	ret, err = ssh.ParsePrivateKey(content)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && passphrase != "" {
		ret, err = ssh.ParsePrivateKeyWithPassphrase(content, []byte(passphrase))
	}
	return
}
