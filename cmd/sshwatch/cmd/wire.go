//go:build wireinject
// +build wireinject

// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"

	"github.com/black-desk/sshwatch/pkg/sshwatch"
	"github.com/black-desk/sshwatch/pkg/sshwatch/config"
	"github.com/google/wire"
	"go.uber.org/zap"
)

func injectedDaemon(
	context.Context, *config.Config, *zap.SugaredLogger,
) (
	*sshwatch.Daemon, func(), error,
) {
	panic(wire.Build(set))
}
