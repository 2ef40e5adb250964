// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/interfaces"
	"github.com/black-desk/sshwatch/pkg/types"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultInterval = 2 * time.Second

// Key is the registration of one directory with a watch service.
//
// Its polling goroutine (Run) diffs the directory against the previous poll
// and buffers create, delete and modify events. The first event after the key
// became READY signals it, which hands the key to the service queue once.
// Consumers drain the key with PollEvents and re-arm it with Reset.
type Key struct {
	id       string
	dir      string
	interval time.Duration
	kinds    types.KindSet
	ignore   []glob.Glob

	service  Service
	provider interfaces.StatProvider
	log      *zap.SugaredLogger

	buffer *buffer

	// prior is only touched by the polling goroutine.
	prior map[string]types.Attributes

	stateMu sync.Mutex
	state   State

	cancelled  atomic.Bool
	cancelOnce sync.Once
	done       chan struct{}
}

func New(opts ...Opt) (ret *Key, err error) {
	defer Wrap(&err, "create watch key")

	k := &Key{
		id:    uuid.NewString(),
		kinds: types.AllKinds,
		prior: map[string]types.Attributes{},
		state: StateReady,
		done:  make(chan struct{}),
	}

	for i := range opts {
		k, err = opts[i](k)
		if err != nil {
			return
		}
	}

	if k.service == nil {
		err = ErrServiceMissing
		return
	}

	if k.provider == nil {
		err = ErrStatProviderMissing
		return
	}

	if k.dir == "" {
		err = ErrDirMissing
		return
	}

	if k.interval == 0 {
		k.interval = DefaultInterval
	}

	if k.interval < time.Millisecond {
		err = ErrInvalidInterval
		return
	}

	if k.log == nil {
		k.log = zap.NewNop().Sugar()
	}
	k.log = k.log.With("key", k.id, "dir", k.dir)

	k.buffer = newBuffer(k.kinds)
	k.prior = k.filter(k.prior)

	ret = k

	k.log.Debugw("Create a new watch key.",
		"interval", k.interval,
		"kinds", k.kinds,
		"seeded", len(k.prior),
	)

	return
}

type Opt func(k *Key) (ret *Key, err error)

func WithService(s Service) Opt {
	return func(k *Key) (ret *Key, err error) {
		if s == nil {
			err = ErrServiceMissing
			return
		}
		k.service = s
		ret = k
		return
	}
}

func WithStatProvider(p interfaces.StatProvider) Opt {
	return func(k *Key) (ret *Key, err error) {
		if p == nil {
			err = ErrStatProviderMissing
			return
		}
		k.provider = p
		ret = k
		return
	}
}

func WithDir(dir string) Opt {
	return func(k *Key) (ret *Key, err error) {
		if dir == "" {
			err = ErrDirMissing
			return
		}
		k.dir = dir
		ret = k
		return
	}
}

func WithInterval(d time.Duration) Opt {
	return func(k *Key) (ret *Key, err error) {
		if d < time.Millisecond {
			err = ErrInvalidInterval
			return
		}
		k.interval = d
		ret = k
		return
	}
}

func WithKinds(kinds types.KindSet) Opt {
	return func(k *Key) (ret *Key, err error) {
		if kinds == 0 {
			err = ErrNoKinds
			return
		}
		k.kinds = kinds
		ret = k
		return
	}
}

// WithIgnore drops children whose base name matches any of the globs
// before they are diffed.
func WithIgnore(globs ...glob.Glob) Opt {
	return func(k *Key) (ret *Key, err error) {
		k.ignore = append(k.ignore, globs...)
		ret = k
		return
	}
}

// WithPrior seeds the snapshot the first poll is diffed against.
// Without it the first poll reports every existing child as created.
func WithPrior(prior map[string]types.Attributes) Opt {
	return func(k *Key) (ret *Key, err error) {
		k.prior = maps.Clone(prior)
		if k.prior == nil {
			k.prior = map[string]types.Attributes{}
		}
		ret = k
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(k *Key) (ret *Key, err error) {
		k.log = log
		ret = k
		return
	}
}
