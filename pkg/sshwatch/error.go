// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshwatch

import (
	"errors"
)

var (
	ErrConfigMissing       = errors.New("config is missing.")
	ErrWatchServiceMissing = errors.New("watch service is missing.")
	ErrHandlerMissing      = errors.New("event handler is missing.")
)
