package stationstats

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	streamerrors "github.com/tamirms/stationstats/errors"
	"github.com/tamirms/stationstats/internal/fixedpoint"
	"github.com/tamirms/stationstats/internal/stats"
)

// Stats is the aggregate for one key. Min and Max are scaled by 10;
// use Mean for the unscaled average.
type Stats = stats.Accumulator

// Entry is one key of a Result.
type Entry struct {
	Key   []byte
	Stats Stats
}

// Result is the merged aggregate of a run, ordered by raw key bytes.
//
// A Result is immutable and safe for concurrent use.
type Result struct {
	entries []Entry
	records uint64
	skipped uint64
	chunks  uint64
}

// Len returns the number of distinct keys.
func (r *Result) Len() int {
	return len(r.entries)
}

// Entries returns all entries in ascending byte order of Key.
// The caller must not modify the returned slice.
func (r *Result) Entries() []Entry {
	return r.entries
}

// Lookup returns the aggregate for key, or ErrNotFound.
func (r *Result) Lookup(key []byte) (Stats, error) {
	i, ok := slices.BinarySearchFunc(r.entries, key, func(e Entry, k []byte) int {
		return bytes.Compare(e.Key, k)
	})
	if !ok {
		return Stats{}, fmt.Errorf("%w: %q", streamerrors.ErrNotFound, key)
	}
	return r.entries[i].Stats, nil
}

// Records returns the number of records that contributed to the result.
func (r *Result) Records() uint64 { return r.records }

// Skipped returns the number of non-empty lines dropped as malformed.
func (r *Result) Skipped() uint64 { return r.skipped }

// Chunks returns the number of chunks the input was split into.
func (r *Result) Chunks() uint64 { return r.chunks }

// AppendReport appends the report line to dst:
//
//	key: min/mean/max, key: min/mean/max\n
//
// Keys that are not valid UTF-8 are printed with each invalid sequence
// replaced by U+FFFD. Ordering always follows the raw bytes.
func (r *Result) AppendReport(dst []byte) []byte {
	for i := range r.entries {
		e := &r.entries[i]
		if i > 0 {
			dst = append(dst, ", "...)
		}
		if utf8.Valid(e.Key) {
			dst = append(dst, e.Key...)
		} else {
			dst = append(dst, bytes.ToValidUTF8(e.Key, []byte(string(utf8.RuneError)))...)
		}
		dst = append(dst, ": "...)
		dst = fixedpoint.AppendValue(dst, e.Stats.Min)
		dst = append(dst, '/')
		dst = fixedpoint.AppendFloat(dst, e.Stats.Mean())
		dst = append(dst, '/')
		dst = fixedpoint.AppendValue(dst, e.Stats.Max)
	}
	return append(dst, '\n')
}

// WriteTo writes the report line to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.AppendReport(nil))
	if err != nil {
		return int64(n), fmt.Errorf("write report: %w", err)
	}
	return int64(n), nil
}

// String returns the report line.
func (r *Result) String() string {
	return string(r.AppendReport(nil))
}

// Digest returns the xxHash64 of the report line. Two runs over the same
// input produce the same digest regardless of worker count or hash choice.
func (r *Result) Digest() uint64 {
	return xxhash.Sum64(r.AppendReport(nil))
}
