// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchservice

import (
	"github.com/black-desk/sshwatch/pkg/metrics"
	"github.com/black-desk/sshwatch/pkg/watchkey"
)

func (s *WatchService) lookup(dir string) *watchkey.Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.keys[dir]
	if !ok || !k.IsValid() {
		return nil
	}
	return k
}

// add starts the poller of k, unless another key for the same directory
// was registered concurrently, in which case that one wins.
func (s *WatchService) add(k *watchkey.Key) (ret *watchkey.Key, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		err = ErrClosed
		return
	}

	existing, ok := s.keys[k.Watchable()]
	if ok && existing.IsValid() {
		ret = existing
		return
	}

	// The gauges are shared by every service in the process,
	// so each service only adds its own changes.
	if !ok {
		metrics.ServiceKeys.Inc()
	}

	s.keys[k.Watchable()] = k
	s.pool.Go(k.Run)

	s.log.Infow("Directory registered.",
		"dir", k.Watchable(),
		"key", k.ID(),
		"kinds", k.Kinds(),
	)

	ret = k
	return
}

// notify wakes one waiting Take. Must be called with mu held.
func (s *WatchService) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
