// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchservice

import "errors"

var (
	ErrStatProviderMissing = errors.New("stat provider is missing.")
	ErrClosed              = errors.New("watch service is closed.")
	ErrInvalidInterval     = errors.New("polling interval must be at least 1ms.")
	ErrNoKinds             = errors.New("no event kind to watch.")

	errPollTimeout = errors.New("poll timeout.")
)
