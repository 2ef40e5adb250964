// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

const (
	CheckDocumentString = `
Go to check
1. documentation https://pkg.go.dev/github.com/black-desk/sshwatch/cmd/sshwatch
2. example configuration https://github.com/black-desk/sshwatch/blob/master/misc/config/example.yaml
for some help.
`
	SSHWatchCfgPath = "/etc/sshwatch/config.yaml"
)
