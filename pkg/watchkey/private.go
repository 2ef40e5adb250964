// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import (
	"context"
	"maps"
	"path"
	"time"

	"github.com/black-desk/sshwatch/pkg/metrics"
	"github.com/black-desk/sshwatch/pkg/types"
)

func (k *Key) sleep(ctx context.Context) bool {
	timer := time.NewTimer(k.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-k.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (k *Key) tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.KeyTickSeconds.WithLabelValues(k.dir).Add(time.Since(start).Seconds())
	}()
	metrics.KeyTicks.WithLabelValues(k.dir).Inc()

	k.log.Debugw("Polling directory.")

	current, err := k.provider.StatDirectory(ctx, k.dir)
	if err != nil {
		if ctx.Err() != nil {
			k.log.Debugw("Polling interrupted.",
				"error", err,
			)
			return
		}

		metrics.KeyTickFailures.WithLabelValues(k.dir).Inc()
		k.log.Errorw("Failed to stat directory.",
			"error", err,
		)
		return
	}

	if !k.IsValid() {
		return
	}

	k.diff(k.filter(current))
}

func (k *Key) filter(entries map[string]types.Attributes) map[string]types.Attributes {
	if len(k.ignore) == 0 {
		return entries
	}

	ret := make(map[string]types.Attributes, len(entries))
	for p, attrs := range entries {
		if k.ignored(path.Base(p)) {
			continue
		}
		ret[p] = attrs
	}
	return ret
}

func (k *Key) ignored(name string) bool {
	for i := range k.ignore {
		if k.ignore[i].Match(name) {
			return true
		}
	}
	return false
}

// diff passes every path of current and of the prior snapshot
// to at most one observe call, then makes a copy of current the prior
// snapshot. current belongs to the caller and is not modified.
func (k *Key) diff(current map[string]types.Attributes) {
	prior := k.prior

	for p, attrs := range current {
		old, ok := prior[p]
		if !ok {
			k.observe(types.EventKindCreate, p)
			continue
		}

		delete(prior, p)

		if !attrs.Equal(old) {
			k.observe(types.EventKindModify, p)
		}
	}

	// Whatever is left disappeared.
	for p := range prior {
		k.observe(types.EventKindDelete, p)
	}

	k.prior = maps.Clone(current)
}

func (k *Key) observe(kind types.EventKind, p string) {
	var changed bool
	switch kind {
	case types.EventKindCreate:
		changed = k.buffer.observeCreate(p)
	case types.EventKindDelete:
		changed = k.buffer.observeDelete(p)
	case types.EventKindModify:
		changed = k.buffer.observeModify(p)
	}

	if !changed {
		return
	}

	k.log.Debugw("Change observed.",
		"kind", kind,
		"path", p,
	)
	metrics.KeyEvents.WithLabelValues(k.dir, kind.String()).Inc()

	k.signal()
}

func (k *Key) signal() {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()

	if k.state == StateSignalled {
		return
	}

	k.state = StateSignalled
	k.service.Enqueue(k)
}
