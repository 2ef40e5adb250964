// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import "errors"

var (
	ErrServiceMissing      = errors.New("watch service is missing.")
	ErrStatProviderMissing = errors.New("stat provider is missing.")
	ErrDirMissing          = errors.New("directory to watch is missing.")
	ErrInvalidInterval     = errors.New("polling interval must be at least 1ms.")
	ErrNoKinds             = errors.New("no event kind to watch.")
)
