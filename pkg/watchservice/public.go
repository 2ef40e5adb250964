// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchservice

import (
	"context"
	"errors"
	"path"
	"time"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/metrics"
	"github.com/black-desk/sshwatch/pkg/types"
	"github.com/black-desk/sshwatch/pkg/watchkey"
)

// Register starts watching dir.
// If dir is already watched by a valid key, that key is returned.
func (s *WatchService) Register(
	ctx context.Context, dir string, opts ...RegisterOpt,
) (
	ret *watchkey.Key, err error,
) {
	defer Wrap(&err, "register directory %s", dir)

	r := &registration{
		interval: s.interval,
		kinds:    types.AllKinds,
	}
	for i := range opts {
		r, err = opts[i](r)
		if err != nil {
			return
		}
	}

	dir = path.Clean(dir)

	if k := s.lookup(dir); k != nil {
		ret = k
		return
	}

	if s.closed.Load() {
		err = ErrClosed
		return
	}

	keyOpts := []watchkey.Opt{
		watchkey.WithService(s),
		watchkey.WithStatProvider(s.provider),
		watchkey.WithDir(dir),
		watchkey.WithInterval(r.interval),
		watchkey.WithKinds(r.kinds),
		watchkey.WithIgnore(r.ignore...),
		watchkey.WithLogger(s.log),
	}

	if !r.reportExisting {
		var prior map[string]types.Attributes
		prior, err = s.provider.StatDirectory(ctx, dir)
		if err != nil {
			Wrap(&err, "take initial snapshot")
			return
		}
		keyOpts = append(keyOpts, watchkey.WithPrior(prior))
	}

	var k *watchkey.Key
	k, err = watchkey.New(keyOpts...)
	if err != nil {
		return
	}

	ret, err = s.add(k)
	return
}

// Keys returns the registered keys.
func (s *WatchService) Keys() (ret []*watchkey.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret = make([]*watchkey.Key, 0, len(s.keys))
	for _, k := range s.keys {
		ret = append(ret, k)
	}
	return
}

// Poll removes and returns the next signalled key,
// or nil if no key is signalled.
func (s *WatchService) Poll() (ret *watchkey.Key, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		err = ErrClosed
		return
	}

	if len(s.queue) == 0 {
		return
	}

	ret = s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	metrics.ServiceQueued.Dec()
	delete(s.queued, ret)

	if len(s.queue) > 0 {
		s.notify()
	}

	return
}

// PollTimeout waits up to d for a signalled key.
// It returns nil without error on timeout.
func (s *WatchService) PollTimeout(
	ctx context.Context, d time.Duration,
) (
	ret *watchkey.Key, err error,
) {
	ctx, cancel := context.WithTimeoutCause(ctx, d, errPollTimeout)
	defer cancel()

	ret, err = s.Take(ctx)
	if errors.Is(err, errPollTimeout) {
		err = nil
	}
	return
}

// Take waits for the next signalled key.
func (s *WatchService) Take(ctx context.Context) (ret *watchkey.Key, err error) {
	for {
		ret, err = s.Poll()
		if err != nil || ret != nil {
			return
		}

		select {
		case <-s.wake:
		case <-s.done:
			err = ErrClosed
			return
		case <-ctx.Done():
			err = context.Cause(ctx)
			return
		}
	}
}

// Enqueue queues a signalled key. Keys already queued are not queued twice.
func (s *WatchService) Enqueue(k *watchkey.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return
	}

	if _, ok := s.queued[k]; ok {
		return
	}

	s.queued[k] = struct{}{}
	s.queue = append(s.queue, k)
	metrics.ServiceQueued.Inc()

	s.notify()
}

func (s *WatchService) Unregister(k *watchkey.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys[k.Watchable()] != k {
		return
	}

	delete(s.keys, k.Watchable())
	metrics.ServiceKeys.Dec()

	s.log.Infow("Directory unregistered.",
		"dir", k.Watchable(),
		"key", k.ID(),
	)
}

func (s *WatchService) Closed() bool {
	return s.closed.Load()
}

// Close invalidates every key and waits for all pollers to exit.
// Calling it again returns the result of the first call.
func (s *WatchService) Close() error {
	s.closeOnce.Do(func() {
		s.log.Debugw("Closing watch service.")

		s.mu.Lock()
		s.closed.Store(true)
		metrics.ServiceKeys.Sub(float64(len(s.keys)))
		metrics.ServiceQueued.Sub(float64(len(s.queue)))
		clear(s.keys)
		clear(s.queued)
		s.queue = nil
		s.mu.Unlock()

		close(s.done)
		s.cancel(ErrClosed)

		s.closeErr = s.pool.Wait()
		if s.closeErr != nil {
			Wrap(&s.closeErr, "wait for pollers")
		}

		s.log.Infow("Watch service closed.")
	})

	return s.closeErr
}

// Run blocks until ctx is done or the service is closed, then closes it.
func (s *WatchService) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "running watch service")

	select {
	case <-ctx.Done():
	case <-s.done:
	}

	err = s.Close()
	if err != nil {
		return
	}

	return ctx.Err()
}
