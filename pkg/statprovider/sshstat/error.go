// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshstat

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	ErrClientMissing   = errors.New("ssh client is missing.")
	ErrMalformedRecord = errors.New("malformed record in remote output.")
)

// ErrRemoteCommand is returned when the listing command exits non-zero.
type ErrRemoteCommand struct {
	Status int
	Stderr string
}

func (e *ErrRemoteCommand) Error() string {
	return fmt.Sprintf("remote command exited with status %d: %s",
		e.Status, e.Stderr)
}

// Unwrap reports fs.ErrNotExist when the remote directory is missing.
func (e *ErrRemoteCommand) Unwrap() error {
	if strings.Contains(e.Stderr, "No such file or directory") {
		return fs.ErrNotExist
	}
	return nil
}
