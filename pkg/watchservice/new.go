// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchservice

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/interfaces"
	"github.com/black-desk/sshwatch/pkg/watchkey"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// WatchService owns watch keys, runs their pollers
// and queues the keys that got signalled.
type WatchService struct {
	provider interfaces.StatProvider
	interval time.Duration
	log      *zap.SugaredLogger

	cancel context.CancelCauseFunc
	pool   *pool.ContextPool

	mu     sync.Mutex
	keys   map[string]*watchkey.Key
	queue  []*watchkey.Key
	queued map[*watchkey.Key]struct{}
	wake   chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

var _ watchkey.Service = &WatchService{}

func New(opts ...Opt) (ret *WatchService, err error) {
	defer Wrap(&err, "create watch service")

	s := &WatchService{
		interval: watchkey.DefaultInterval,
		keys:     map[string]*watchkey.Key{},
		queued:   map[*watchkey.Key]struct{}{},
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	for i := range opts {
		s, err = opts[i](s)
		if err != nil {
			return
		}
	}

	if s.provider == nil {
		err = ErrStatProviderMissing
		return
	}

	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}

	var ctx context.Context
	ctx, s.cancel = context.WithCancelCause(context.Background())
	s.pool = pool.New().WithContext(ctx)

	ret = s

	s.log.Debugw("Create a new watch service.",
		"interval", s.interval,
	)

	return
}

type Opt func(s *WatchService) (ret *WatchService, err error)

func WithStatProvider(p interfaces.StatProvider) Opt {
	return func(s *WatchService) (ret *WatchService, err error) {
		if p == nil {
			err = ErrStatProviderMissing
			return
		}
		s.provider = p
		ret = s
		return
	}
}

// WithInterval sets the polling interval of keys registered
// without an interval of their own.
func WithInterval(d time.Duration) Opt {
	return func(s *WatchService) (ret *WatchService, err error) {
		if d < time.Millisecond {
			err = ErrInvalidInterval
			return
		}
		s.interval = d
		ret = s
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(s *WatchService) (ret *WatchService, err error) {
		s.log = log
		ret = s
		return
	}
}
