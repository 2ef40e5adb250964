// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import "github.com/black-desk/sshwatch/cmd/sshwatch/cmd"

func main() {
	cmd.Execute()
}
