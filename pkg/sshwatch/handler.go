// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshwatch

import (
	"fmt"
	"io"
	"sync"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/interfaces"
	"github.com/black-desk/sshwatch/pkg/types"
)

// WriterHandler prints one "KIND<TAB>COUNT<TAB>PATH" line per event.
type WriterHandler struct {
	mu sync.Mutex
	w  io.Writer
}

var _ interfaces.Handler = &WriterHandler{}

func NewWriterHandler(w io.Writer) *WriterHandler {
	return &WriterHandler{w: w}
}

func (h *WriterHandler) HandleEvents(dir string, events []types.Event) (err error) {
	defer Wrap(&err, "write events of %s", dir)

	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range events {
		_, err = fmt.Fprintf(h.w, "%s\t%d\t%s\n",
			events[i].Kind, events[i].Count, events[i].Path)
		if err != nil {
			return
		}
	}

	return
}
