// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import (
	"context"

	"github.com/black-desk/sshwatch/pkg/types"
)

func (k *Key) ID() string {
	return k.id
}

// Watchable returns the watched directory.
func (k *Key) Watchable() string {
	return k.dir
}

func (k *Key) Kinds() types.KindSet {
	return k.kinds
}

func (k *Key) State() State {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()

	return k.state
}

// IsValid reports whether the key is neither cancelled nor owned by a closed
// service. Once false it never becomes true again.
func (k *Key) IsValid() bool {
	return !k.cancelled.Load() && !k.service.Closed()
}

// PollEvents drains the pending events. It never changes the key state.
func (k *Key) PollEvents() []types.Event {
	return k.buffer.drain()
}

// Reset re-arms the key after its events were drained.
// If events arrived in the meantime the key is signalled again
// and handed back to the service queue.
// It returns false only if the key is no longer valid.
func (k *Key) Reset() bool {
	if !k.IsValid() {
		return false
	}

	k.stateMu.Lock()
	defer k.stateMu.Unlock()

	if k.buffer.len() > 0 {
		k.log.Debugw("Events pending on reset, signal again.")
		k.state = StateSignalled
		k.service.Enqueue(k)
		return true
	}

	k.state = StateReady
	return true
}

// Cancel invalidates the key and unregisters it from the service.
// The polling goroutine exits at its next iteration.
func (k *Key) Cancel() {
	k.cancelOnce.Do(func() {
		k.cancelled.Store(true)
		close(k.done)
		k.service.Unregister(k)

		k.log.Debugw("Watch key cancelled.")
	})
}

// Run polls the directory until the key becomes invalid or ctx is done.
// Failed polls are logged and retried after the interval.
func (k *Key) Run(ctx context.Context) (err error) {
	k.log.Infow("Poller started.",
		"interval", k.interval,
	)
	defer k.log.Infow("Poller stopped.")

	for {
		if !k.IsValid() {
			return
		}

		k.tick(ctx)

		if !k.sleep(ctx) {
			break
		}
	}

	if k.IsValid() {
		err = context.Cause(ctx)
	}

	return
}
