// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package localstat

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/types"
	"golang.org/x/sys/unix"
)

func (p *Provider) StatDirectory(
	ctx context.Context, dir string,
) (
	ret map[string]types.Attributes, err error,
) {
	defer Wrap(&err, "stat local directory %s", dir)

	var entries []os.DirEntry
	entries, err = os.ReadDir(dir)
	if err != nil {
		return
	}

	result := make(map[string]types.Attributes, len(entries))
	for i := range entries {
		if err = ctx.Err(); err != nil {
			return
		}

		child := filepath.Join(dir, entries[i].Name())

		var stat unix.Stat_t
		err = unix.Lstat(child, &stat)
		if errors.Is(err, unix.ENOENT) {
			p.log.Debugw("Entry removed while listing directory.",
				"path", child,
			)
			err = nil
			continue
		}
		if err != nil {
			err = &fs.PathError{Op: "lstat", Path: child, Err: err}
			return
		}

		result[child] = types.Attributes{
			Size:    stat.Size,
			ModTime: time.Unix(stat.Mtim.Unix()),
			Inode:   stat.Ino,
			Mode:    stat.Mode & 0o7777,
		}
	}

	ret = result
	return
}
