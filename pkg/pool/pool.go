// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pool is a typed wrapper around sync.Pool.
package pool

import "sync"

type Pool[T any] struct {
	p       *sync.Pool
	onPutFn func(x T) T
}

// New creates a pool. onPutFn, if not nil, is applied to every value
// before it goes back into the pool, usually to reset it.
func New[T any](newFn func() T, onPutFn func(x T) T) (ret *Pool[T]) {
	ret = &Pool[T]{
		p:       &sync.Pool{New: func() any { return newFn() }},
		onPutFn: onPutFn,
	}
	return
}

func (p *Pool[T]) Get() T {
	return p.p.Get().(T)
}

func (p *Pool[T]) Put(x T) {
	if p.onPutFn == nil {
		p.p.Put(x)
		return
	}
	p.p.Put(p.onPutFn(x))
}
