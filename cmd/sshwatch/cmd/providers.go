// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"os"

	"github.com/black-desk/sshwatch/pkg/interfaces"
	"github.com/black-desk/sshwatch/pkg/sshconn"
	"github.com/black-desk/sshwatch/pkg/sshwatch"
	"github.com/black-desk/sshwatch/pkg/sshwatch/config"
	"github.com/black-desk/sshwatch/pkg/statprovider/localstat"
	"github.com/black-desk/sshwatch/pkg/statprovider/sshstat"
	"github.com/black-desk/sshwatch/pkg/watchservice"
	"github.com/google/wire"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

func provideSSHClient(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.SugaredLogger,
) (
	ret *ssh.Client, cleanup func(), err error,
) {
	cleanup = func() {}

	if cfg.Transport != config.TransportSSH {
		return
	}

	ret, err = sshconn.Dial(ctx, cfg.SSH, logger)
	if err != nil {
		return
	}

	client := ret
	cleanup = func() {
		err := client.Close()
		if err != nil {
			logger.Debugw("Failed to close ssh connection.",
				"error", err,
			)
		}
	}
	return
}

func provideStatProvider(
	cfg *config.Config,
	client *ssh.Client,
	logger *zap.SugaredLogger,
) (
	interfaces.StatProvider, error,
) {
	if cfg.Transport == config.TransportLocal {
		return localstat.New(
			localstat.WithLogger(logger),
		)
	}

	return sshstat.New(
		sshstat.WithClient(client),
		sshstat.WithLogger(logger),
	)
}

func provideWatchService(
	provider interfaces.StatProvider,
	cfg *config.Config,
	logger *zap.SugaredLogger,
) (
	ret *watchservice.WatchService, cleanup func(), err error,
) {
	ret, err = watchservice.New(
		watchservice.WithStatProvider(provider),
		watchservice.WithInterval(cfg.Interval),
		watchservice.WithLogger(logger),
	)
	if err != nil {
		return
	}

	s := ret
	cleanup = func() {
		err := s.Close()
		if err != nil {
			logger.Errorw("Failed to close watch service.",
				"error", err,
			)
		}
	}
	return
}

func provideHandler() interfaces.Handler {
	return sshwatch.NewWriterHandler(os.Stdout)
}

func provideDaemon(
	cfg *config.Config,
	service *watchservice.WatchService,
	handler interfaces.Handler,
	logger *zap.SugaredLogger,
) (
	*sshwatch.Daemon, error,
) {
	return sshwatch.New(
		sshwatch.WithConfig(cfg),
		sshwatch.WithLogger(logger),
		sshwatch.WithWatchService(service),
		sshwatch.WithHandler(handler),
	)
}

var set = wire.NewSet(
	provideDaemon,
	provideHandler,
	provideSSHClient,
	provideStatProvider,
	provideWatchService,
)
