// Package lines splits byte buffers into records without allocating.
package lines

import (
	"bytes"
	"iter"
)

const (
	newline   = '\n'
	delimiter = ';'
)

// All returns the non-empty lines of buf, excluding the newline byte.
// The sequence is lazy and can be ranged over any number of times; each
// pass starts from the beginning of buf. Yielded slices alias buf.
func All(buf []byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		rest := buf
		for len(rest) > 0 {
			var line []byte
			if i := bytes.IndexByte(rest, newline); i >= 0 {
				line, rest = rest[:i], rest[i+1:]
			} else {
				line, rest = rest, nil
			}
			if len(line) == 0 {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Cut splits line at the first ';'. The value has one trailing '\r'
// removed. ok is false when the line has no delimiter.
func Cut(line []byte) (key, value []byte, ok bool) {
	i := bytes.IndexByte(line, delimiter)
	if i < 0 {
		return nil, nil, false
	}
	key, value = line[:i], line[i+1:]
	if n := len(value); n > 0 && value[n-1] == '\r' {
		value = value[:n-1]
	}
	return key, value, true
}
