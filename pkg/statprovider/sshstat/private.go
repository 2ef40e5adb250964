// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sshstat

import (
	"bytes"
	"path"
	"strconv"
	"strings"
	"time"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/sshwatch/pkg/types"
	"github.com/kballard/go-shellquote"
)

// Size, mtime as seconds since epoch, inode, permission bits in octal
// and base name, tab separated, one NUL terminated record per child.
const findFormat = `%s\t%T@\t%i\t%m\t%f\0`

func command(dir string) string {
	return shellquote.Join(
		"find", "-H", dir,
		"-mindepth", "1", "-maxdepth", "1",
		"-printf", findFormat,
	)
}

func parse(dir string, out []byte) (ret map[string]types.Attributes, err error) {
	ret = map[string]types.Attributes{}

	for len(out) > 0 {
		var record []byte
		end := bytes.IndexByte(out, 0)
		if end < 0 {
			record, out = out, nil
		} else {
			record, out = out[:end], out[end+1:]
		}

		if len(record) == 0 {
			continue
		}

		var (
			name  string
			attrs types.Attributes
		)
		name, attrs, err = parseRecord(string(record))
		if err != nil {
			return nil, err
		}

		ret[path.Join(dir, name)] = attrs
	}

	return
}

func parseRecord(record string) (name string, ret types.Attributes, err error) {
	defer Wrap(&err, "parse record %q", record)

	fields := strings.SplitN(record, "\t", 5)
	if len(fields) != 5 || fields[4] == "" {
		err = ErrMalformedRecord
		return
	}

	ret.Size, err = strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return
	}

	ret.ModTime, err = parseTimestamp(fields[1])
	if err != nil {
		return
	}

	ret.Inode, err = strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return
	}

	var mode uint64
	mode, err = strconv.ParseUint(fields[3], 8, 32)
	if err != nil {
		return
	}
	ret.Mode = uint32(mode)

	name = fields[4]
	return
}

// parseTimestamp parses the "seconds.fraction" form printed by %T@.
func parseTimestamp(s string) (ret time.Time, err error) {
	secs, frac, _ := strings.Cut(s, ".")

	var sec int64
	sec, err = strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return
	}

	if len(frac) > 9 {
		frac = frac[:9]
	}
	frac += strings.Repeat("0", 9-len(frac))

	var nsec int64
	nsec, err = strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return
	}

	// The fraction extends the magnitude: -1.5 is 1.5s before the epoch.
	if strings.HasPrefix(secs, "-") {
		nsec = -nsec
	}

	ret = time.Unix(sec, nsec)
	return
}
