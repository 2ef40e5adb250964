// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchservice

import (
	"time"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/types"
	"github.com/gobwas/glob"
)

type registration struct {
	interval       time.Duration
	kinds          types.KindSet
	reportExisting bool
	ignore         []glob.Glob
}

type RegisterOpt func(r *registration) (ret *registration, err error)

func WithKinds(kinds ...types.EventKind) RegisterOpt {
	return func(r *registration) (ret *registration, err error) {
		if len(kinds) == 0 {
			err = ErrNoKinds
			return
		}
		r.kinds = types.NewKindSet(kinds...)
		ret = r
		return
	}
}

func WithKeyInterval(d time.Duration) RegisterOpt {
	return func(r *registration) (ret *registration, err error) {
		if d < time.Millisecond {
			err = ErrInvalidInterval
			return
		}
		r.interval = d
		ret = r
		return
	}
}

// WithReportExisting makes the first poll report every entry
// already present at registration time as created.
// By default those entries are absorbed into the initial snapshot.
func WithReportExisting(report bool) RegisterOpt {
	return func(r *registration) (ret *registration, err error) {
		r.reportExisting = report
		ret = r
		return
	}
}

// WithIgnore skips children whose base name matches one of the glob patterns.
func WithIgnore(patterns ...string) RegisterOpt {
	return func(r *registration) (ret *registration, err error) {
		defer Wrap(&err, "compile ignore patterns")

		for i := range patterns {
			var g glob.Glob
			g, err = glob.Compile(patterns[i], '/')
			if err != nil {
				Wrap(&err, "pattern %q", patterns[i])
				return
			}
			r.ignore = append(r.ignore, g)
		}

		ret = r
		return
	}
}
