// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

import (
	"fmt"
	"strings"
)

type EventKind uint8

const (
	EventKindCreate EventKind = iota // CREATE
	EventKindDelete                  // DELETE
	EventKindModify                  // MODIFY
)

func (k EventKind) String() string {
	switch k {
	case EventKindCreate:
		return "CREATE"
	case EventKindDelete:
		return "DELETE"
	case EventKindModify:
		return "MODIFY"
	}

	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// ParseEventKind accepts the lower or upper case name of a kind,
// as written in configuration files.
func ParseEventKind(s string) (ret EventKind, err error) {
	switch strings.ToLower(s) {
	case "create":
		ret = EventKindCreate
	case "delete":
		ret = EventKindDelete
	case "modify":
		ret = EventKindModify
	default:
		err = &ErrUnknownEventKind{Kind: s}
	}
	return
}

// KindSet is a bit set of event kinds a watch key records.
type KindSet uint8

const AllKinds = KindSet(1<<EventKindCreate | 1<<EventKindDelete | 1<<EventKindModify)

func NewKindSet(kinds ...EventKind) (ret KindSet) {
	for i := range kinds {
		ret |= 1 << kinds[i]
	}
	return
}

func (s KindSet) Has(k EventKind) bool {
	return s&(1<<k) != 0
}

func (s KindSet) String() string {
	names := []string{}
	for _, k := range []EventKind{EventKindCreate, EventKindDelete, EventKindModify} {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// Event is a pending notification about one child of a watched directory.
// Count is only ever greater than one for EventKindModify,
// where it tells how many modifications were coalesced.
type Event struct {
	Kind  EventKind
	Path  string
	Count int
}

func NewEvent(kind EventKind, path string) *Event {
	return &Event{Kind: kind, Path: path, Count: 1}
}

// Same reports whether two events are about the same kind of change
// of the same path. Count is not compared.
func (e Event) Same(other Event) bool {
	return e.Kind == other.Kind && e.Path == other.Path
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s (count: %d)", e.Kind, e.Path, e.Count)
}
