// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
)

var (
	ErrContentMissing = errors.New("configuration content is missing.")
	ErrSSHMissing     = errors.New("`ssh` is required when transport is ssh.")
	ErrHomeUnknown    = errors.New("cannot expand `~` without $HOME.")
)

type ErrDuplicateWatch struct {
	Path string
}

func (e *ErrDuplicateWatch) Error() string {
	return fmt.Sprintf("directory %s is watched more than once.", e.Path)
}
