// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshstat

import (
	"context"
	"errors"
	"strings"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/types"
	"golang.org/x/crypto/ssh"
)

// StatDirectory lists the immediate children of dir on the remote host.
// Cancelling ctx closes the session.
func (p *Provider) StatDirectory(
	ctx context.Context, dir string,
) (
	ret map[string]types.Attributes, err error,
) {
	defer Wrap(&err, "stat remote directory %s", dir)

	var session *ssh.Session
	session, err = p.client.NewSession()
	if err != nil {
		Wrap(&err, "open ssh session")
		return
	}
	defer session.Close()

	stdout := p.buffers.Get()
	defer p.buffers.Put(stdout)
	stderr := p.buffers.Get()
	defer p.buffers.Put(stderr)

	session.Stdout = stdout
	session.Stderr = stderr

	cmd := command(dir)
	p.log.Debugw("Run remote command.", "command", cmd)

	result := make(chan error, 1)
	go func() {
		result <- session.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		session.Close()
		<-result
		err = context.Cause(ctx)
		return
	case err = <-result:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			err = &ErrRemoteCommand{
				Status: exitErr.ExitStatus(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return
	}

	ret, err = parse(dir, stdout.Bytes())
	if err != nil {
		return
	}

	p.log.Debugw("Remote directory listed.",
		"dir", dir,
		"entries", len(ret),
	)
	return
}
