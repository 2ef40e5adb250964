// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"time"

	"github.com/black-desk/sshwatch/pkg/types"
	"go.uber.org/zap"
)

type Config struct {
	Version string `yaml:"version" validate:"required,eq=1"`

	// Transport selects where watched directories live.
	// "ssh" polls a remote host, "local" polls this machine.
	Transport Transport `yaml:"transport" validate:"omitempty,oneof=ssh local"`
	// Interval is the default polling interval of every watch.
	Interval time.Duration `yaml:"interval" validate:"omitempty,min=1ms"`

	SSH     *SSH     `yaml:"ssh"`
	Metrics *Metrics `yaml:"metrics"`
	Watches []*Watch `yaml:"watches" validate:"required,min=1,dive,required"`

	log *zap.SugaredLogger `yaml:"-"`
}

type Transport string

const (
	TransportSSH   Transport = "ssh"
	TransportLocal Transport = "local"
)

type SSH struct {
	Address string `yaml:"address" validate:"required,hostname_port"`
	User    string `yaml:"user" validate:"required"`

	IdentityFile string `yaml:"identity-file" validate:"required_without=Password"`
	Password     string `yaml:"password"`

	// KnownHosts is the known_hosts file used to check the host key.
	// It is ignored when InsecureIgnoreHostKey is set.
	KnownHosts            string `yaml:"known-hosts"`
	InsecureIgnoreHostKey bool   `yaml:"insecure-ignore-host-key"`

	Timeout time.Duration `yaml:"timeout" validate:"omitempty,min=1ms"`
}

type Metrics struct {
	Address string `yaml:"address" validate:"required,hostname_port"`
}

type Watch struct {
	Path string `yaml:"path" validate:"required"`
	// Kinds are the event kinds to record. Empty means all of them.
	Kinds    []string      `yaml:"kinds"`
	Interval time.Duration `yaml:"interval" validate:"omitempty,min=1ms"`
	// ReportExisting reports children present at startup as created.
	ReportExisting bool `yaml:"report-existing"`
	// Ignore holds glob patterns matched against the base name of children.
	Ignore []string `yaml:"ignore"`

	kinds []types.EventKind `yaml:"-"`
}

// EventKinds returns the parsed Kinds.
func (w *Watch) EventKinds() []types.EventKind {
	return w.kinds
}

