// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
)

func (c *Config) check() (err error) {
	defer Wrap(&err, "check configuration")

	var validator = validator.New()
	err = validator.Struct(c)
	if err != nil {
		err = fmt.Errorf("validator: %w", err)
		return
	}

	if c.Transport == "" {
		c.Transport = TransportSSH
	}

	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}

	if c.Transport == TransportSSH {
		if c.SSH == nil {
			err = ErrSSHMissing
			return
		}

		err = c.SSH.check(c)
		if err != nil {
			return
		}
	} else if c.SSH != nil {
		c.log.Warnw("Transport is not ssh, ssh configuration ignored.",
			"transport", c.Transport,
		)
	}

	paths := map[string]struct{}{}
	for i := range c.Watches {
		w := c.Watches[i]

		err = w.check(c)
		if err != nil {
			return
		}

		if _, ok := paths[w.Path]; ok {
			err = &ErrDuplicateWatch{Path: w.Path}
			return
		}
		paths[w.Path] = struct{}{}
	}

	return
}

func (s *SSH) check(c *Config) (err error) {
	defer Wrap(&err, "check ssh configuration")

	if s.Timeout == 0 {
		s.Timeout = DefaultSSHTimeout
	}

	if s.IdentityFile != "" {
		s.IdentityFile, err = expandHome(s.IdentityFile)
		if err != nil {
			return
		}
	}

	if s.InsecureIgnoreHostKey {
		c.log.Warnw("Host key checking disabled.",
			"address", s.Address,
		)
		return
	}

	if s.KnownHosts == "" {
		s.KnownHosts = DefaultKnownHosts
	}

	s.KnownHosts, err = expandHome(s.KnownHosts)
	if err != nil {
		return
	}

	return
}

func (w *Watch) check(c *Config) (err error) {
	defer Wrap(&err, "check watch of %s", w.Path)

	if c.Transport == TransportLocal {
		w.Path = filepath.Clean(w.Path)
	} else {
		w.Path = path.Clean(w.Path)
	}

	if w.Interval == 0 {
		w.Interval = c.Interval
	}

	w.kinds = nil
	for i := range w.Kinds {
		var kind types.EventKind
		kind, err = types.ParseEventKind(w.Kinds[i])
		if err != nil {
			return
		}
		w.kinds = append(w.kinds, kind)
	}

	for i := range w.Ignore {
		_, err = glob.Compile(w.Ignore[i], '/')
		if err != nil {
			Wrap(&err, "ignore pattern %q", w.Ignore[i])
			return
		}
	}

	if len(w.kinds) == 0 {
		c.log.Debugw("No kinds given, record all of them.",
			"path", w.Path,
		)
	}

	return
}

func expandHome(p string) (ret string, err error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		ret = p
		return
	}

	home := os.Getenv("HOME")
	if home == "" {
		err = ErrHomeUnknown
		return
	}

	ret = filepath.Join(home, strings.TrimPrefix(p, "~"))
	return
}
