// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interfaces

import (
	"context"

	"github.com/black-desk/sshwatch/pkg/types"
)

// StatProvider enumerates the direct children of a directory.
//
// One call is one enumeration: it returns either a consistent snapshot
// keyed by the full path of each child, or an error. The returned map
// stays owned by the implementation, which may return it again later.
// Implementations are called by at most one goroutine per watch key at a time.
type StatProvider interface {
	StatDirectory(ctx context.Context, dir string) (map[string]types.Attributes, error)
}
