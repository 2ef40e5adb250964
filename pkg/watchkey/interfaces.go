// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

// Service is what a key needs from the watch service that owns it.
// The key only observes the service, it never owns it.
type Service interface {
	// Enqueue puts a signalled key into the queue consumers take keys from.
	// It is called on every READY to SIGNALLED transition and again by Reset
	// when events are still pending, so k may already be queued.
	// A key must never be queued twice.
	Enqueue(k *Key)
	// Unregister removes the key from the registered keys.
	// It must be idempotent.
	Unregister(k *Key)
	Closed() bool
}
