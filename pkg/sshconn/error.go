// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshconn

import "errors"

var (
	ErrConfigMissing = errors.New("ssh configuration is missing.")
	ErrNoAuthMethod  = errors.New("neither identity file nor password is configured.")
)
