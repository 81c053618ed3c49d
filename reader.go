package stationstats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// emitFunc hands an owned chunk to the workers.
type emitFunc func(chunk []byte) error

// readStats counts what a chunk source produced.
type readStats struct {
	chunks int
	bytes  int64
}

// readChunks reads r in blocks of blockSize bytes and emits chunks that end
// on a newline. Bytes after the last newline of a block are carried into the
// next one, so a record is never split across chunks. At end of input a
// non-empty remainder is emitted as-is, newline or not.
//
// Every emitted chunk is a fresh allocation; the receiver owns it.
func readChunks(ctx context.Context, r io.Reader, blockSize int, emit emitFunc) (readStats, error) {
	var st readStats
	var leftover []byte

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		// Read straight behind the carried bytes to avoid a second copy.
		buf := make([]byte, len(leftover)+blockSize)
		copy(buf, leftover)
		n, rerr := r.Read(buf[len(leftover):])
		if n < 0 || n > blockSize {
			return st, fmt.Errorf("read input: invalid read count %d", n)
		}
		st.bytes += int64(n)
		buf = buf[:len(leftover)+n]

		if n > 0 {
			if nl := bytes.LastIndexByte(buf, '\n'); nl >= 0 {
				leftover = append(leftover[:0], buf[nl+1:]...)
				if err := emit(buf[:nl+1:nl+1]); err != nil {
					return st, err
				}
				st.chunks++
			} else {
				// No record ends in this block yet; keep carrying.
				leftover = buf
			}
		}

		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				return st, fmt.Errorf("read input: %w", rerr)
			}
			break
		}
	}

	if len(leftover) > 0 {
		if err := emit(leftover); err != nil {
			return st, err
		}
		st.chunks++
	}
	return st, nil
}

// splitChunks emits newline-aligned sub-slices of data of roughly blockSize
// bytes each. The slices alias data.
func splitChunks(ctx context.Context, data []byte, blockSize int, emit emitFunc) (readStats, error) {
	st := readStats{bytes: int64(len(data))}

	for start := 0; start < len(data); {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		end := min(start+blockSize, len(data))
		if end < len(data) {
			if nl := bytes.LastIndexByte(data[start:end], '\n'); nl >= 0 {
				end = start + nl + 1
			} else if nl := bytes.IndexByte(data[end:], '\n'); nl >= 0 {
				end += nl + 1
			} else {
				end = len(data)
			}
		}

		if err := emit(data[start:end:end]); err != nil {
			return st, err
		}
		st.chunks++
		start = end
	}
	return st, nil
}
