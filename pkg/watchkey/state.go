// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import "fmt"

type State uint8

const (
	StateReady     State = iota // READY
	StateSignalled              // SIGNALLED
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateSignalled:
		return "SIGNALLED"
	}

	return fmt.Sprintf("State(%d)", uint8(s))
}
