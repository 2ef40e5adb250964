// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"
)

func (w *Watch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "watch [ path: %s | interval: %s", w.Path, w.Interval)
	if len(w.kinds) != 0 {
		fmt.Fprintf(&b, " | kinds: %v", w.kinds)
	}
	if len(w.Ignore) != 0 {
		fmt.Fprintf(&b, " | ignore: %v", w.Ignore)
	}
	if w.ReportExisting {
		b.WriteString(" | report existing")
	}
	b.WriteString(" ]")
	return b.String()
}

// String hides the password.
func (s *SSH) String() string {
	auth := "key"
	if s.IdentityFile == "" {
		auth = "password"
	} else if s.Password != "" {
		auth = "key+password"
	}
	return fmt.Sprintf("ssh [ %s@%s | auth: %s ]", s.User, s.Address, auth)
}
