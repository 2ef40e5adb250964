// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "time"

const (
	DefaultConfig = `
version: 1
transport: local
interval: 2s
watches:
  - path: /var/log
    ignore: ["*.tmp"]
`
	DefaultInterval   = 2 * time.Second
	DefaultSSHTimeout = 10 * time.Second
	DefaultKnownHosts = "~/.ssh/known_hosts"
)
