// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"fmt"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/sshconn"
	"github.com/black-desk/sshwatch/pkg/sshwatch/config"
	"github.com/black-desk/sshwatch/pkg/statprovider/sshstat"
	"github.com/black-desk/sshwatch/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
)

// checkConnectionCmd represents the connection command
var checkConnectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Check ssh connection",
	Long:  `Connect to the configured host and list every watched directory once.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkConnectionCmdRun()
		return
	},
}

func checkConnectionCmdRun() (err error) {
	defer Wrap(&err, "check ssh connection")

	log := checkLogger()

	var cfg *config.Config
	cfg, err = loadConfig(log)
	if err != nil {
		return
	}

	if cfg.Transport != config.TransportSSH {
		err = ErrNotSSHTransport
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SSH.Timeout)
	defer cancel()

	var client *ssh.Client
	client, err = sshconn.Dial(ctx, cfg.SSH, log)
	if err != nil {
		return
	}
	defer client.Close()

	var p *sshstat.Provider
	p, err = sshstat.New(
		sshstat.WithClient(client),
		sshstat.WithLogger(log),
	)
	if err != nil {
		return
	}

	for i := range cfg.Watches {
		w := cfg.Watches[i]

		var entries map[string]types.Attributes
		entries, err = p.StatDirectory(ctx, w.Path)
		if err != nil {
			return
		}

		log.Infow("Remote directory listed.",
			"dir", w.Path,
			"entries", len(entries),
		)
	}

	return
}

func init() {
	checkCmd.AddCommand(checkConnectionCmd)
}
