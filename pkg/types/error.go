// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

import "fmt"

type ErrUnknownEventKind struct {
	Kind string
}

func (e *ErrUnknownEventKind) Error() string {
	return fmt.Sprintf("unknown event kind %q.", e.Kind)
}
