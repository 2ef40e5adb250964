// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interfaces

import "github.com/black-desk/sshwatch/pkg/types"

// Handler consumes the events drained from one watch key.
type Handler interface {
	HandleEvents(dir string, events []types.Event) error
}
