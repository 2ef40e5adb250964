// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"

	"github.com/black-desk/lib/go/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkFlags struct {
	EnableLogger bool
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and connection",
	Long:  `Validate configuration, then make sure every watched directory can be listed.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			checkLogger().Errorw("Failed to check requirements.",
				"config", flags.CfgPath,
				"error", err,
			)

			err = fmt.Errorf("\n\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkCmdRun()
		return
	},
}

func checkCmdRun() (err error) {
	err = checkConfigCmdRun()
	if err != nil {
		return
	}

	err = checkConnectionCmdRun()
	if errors.Is(err, ErrNotSSHTransport) {
		err = nil
	}
	return
}

func checkLogger() *zap.SugaredLogger {
	if !checkFlags.EnableLogger {
		return zap.NewNop().Sugar()
	}
	return logger.Get("sshwatch")
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.PersistentFlags().BoolVarP(
		&checkFlags.EnableLogger,
		"log", "l", false,
		"print logs while checking",
	)
}
