// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchkey

import (
	"sync"

	"github.com/black-desk/sshwatch/pkg/types"
)

// buffer holds the events of a key until they are drained.
//
// A path is never present in more than one of the three maps. Within one
// poll the diff guarantees that. Across polls without a drain in between
// the observe methods fold the new observation into the pending one:
//
//	pending  observed  result
//	-        any       the observation
//	CREATE   CREATE    CREATE
//	CREATE   DELETE    nothing (the consumer never saw the entry)
//	CREATE   MODIFY    CREATE
//	DELETE   CREATE    MODIFY (the entry existed before and still exists)
//	DELETE   DELETE    DELETE
//	DELETE   MODIFY    MODIFY
//	MODIFY   CREATE    MODIFY
//	MODIFY   DELETE    DELETE
//	MODIFY   MODIFY    MODIFY, counted
//
// Folding works on every observation. Only pending events of a kind in
// kinds are visible: they are the ones counted, drained and reported as
// a change.
type buffer struct {
	mu       sync.Mutex
	kinds    types.KindSet
	creates  map[string]*types.Event
	deletes  map[string]*types.Event
	modifies map[string]*types.Event
}

func newBuffer(kinds types.KindSet) *buffer {
	return &buffer{
		kinds:    kinds,
		creates:  map[string]*types.Event{},
		deletes:  map[string]*types.Event{},
		modifies: map[string]*types.Event{},
	}
}

// The observe methods report whether the observation changed a visible
// pending event of path.

func (b *buffer) observeCreate(path string) (changed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.creates[path]; ok {
		return
	}

	if _, ok := b.modifies[path]; ok {
		return
	}

	if _, ok := b.deletes[path]; ok {
		delete(b.deletes, path)
		b.modifyLocked(path)
		return b.kinds.Has(types.EventKindModify)
	}

	b.creates[path] = types.NewEvent(types.EventKindCreate, path)
	return b.kinds.Has(types.EventKindCreate)
}

func (b *buffer) observeDelete(path string) (changed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.deletes[path]; ok {
		return
	}

	if _, ok := b.creates[path]; ok {
		delete(b.creates, path)
		return
	}

	delete(b.modifies, path)
	b.deletes[path] = types.NewEvent(types.EventKindDelete, path)
	return b.kinds.Has(types.EventKindDelete)
}

func (b *buffer) observeModify(path string) (changed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.creates[path]; ok {
		return
	}

	delete(b.deletes, path)
	b.modifyLocked(path)
	return b.kinds.Has(types.EventKindModify)
}

func (b *buffer) modifyLocked(path string) {
	if event, ok := b.modifies[path]; ok {
		event.Count++
		return
	}

	b.modifies[path] = types.NewEvent(types.EventKindModify, path)
}

func (b *buffer) drain() (ret []types.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ret = make([]types.Event, 0, b.lenLocked())
	for _, m := range []map[string]*types.Event{b.creates, b.deletes, b.modifies} {
		for _, event := range m {
			if b.kinds.Has(event.Kind) {
				ret = append(ret, *event)
			}
		}
		clear(m)
	}

	return
}

func (b *buffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lenLocked()
}

// lenLocked counts the visible events.
func (b *buffer) lenLocked() (ret int) {
	for kind, m := range map[types.EventKind]map[string]*types.Event{
		types.EventKindCreate: b.creates,
		types.EventKindDelete: b.deletes,
		types.EventKindModify: b.modifies,
	} {
		if b.kinds.Has(kind) {
			ret += len(m)
		}
	}
	return
}
