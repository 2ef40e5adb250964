// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

import "time"

// Attributes is the part of the metadata of a directory entry
// used to decide whether that entry changed between two polls.
// Providers that cannot report Inode or Mode leave them zero.
type Attributes struct {
	Size    int64
	ModTime time.Time
	Inode   uint64
	Mode    uint32
}

// Equal reports whether a and b describe the same file state.
// Any differing field means the file was modified.
func (a Attributes) Equal(b Attributes) bool {
	return a.Size == b.Size &&
		a.ModTime.Equal(b.ModTime) &&
		a.Inode == b.Inode &&
		a.Mode == b.Mode
}
