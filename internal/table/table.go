// Package table implements the per-worker key -> aggregate map.
//
// Table is an open-addressing hash table with linear probing over raw key
// bytes. Keys are copied into chunked arenas on first insert so callers can
// pass slices of buffers they are about to drop. Entries live in a dense
// slice in insertion order; the slot array only stores entry indexes.
//
// A Table is NOT safe for concurrent use.
package table

import (
	"bytes"
	"iter"

	"github.com/tamirms/stationstats/internal/fixedpoint"
	"github.com/tamirms/stationstats/internal/stats"
)

const (
	// minSlots is the initial slot count. Must be a power of two.
	minSlots = 1024

	// arenaChunkSize is the allocation unit for copied key bytes.
	arenaChunkSize = 64 << 10
)

// HashFunc maps key bytes to a 64-bit hash.
type HashFunc func([]byte) uint64

// Entry is one key and its aggregate.
type Entry struct {
	Key   []byte
	Stats stats.Accumulator
	hash  uint64
}

// Table maps key bytes to accumulators.
type Table struct {
	hash    HashFunc
	slots   []int32 // entry index + 1; 0 marks an empty slot
	mask    uint64
	entries []Entry
	arena   []byte
}

// New returns an empty table using h to hash keys.
func New(h HashFunc) *Table {
	return &Table{
		hash:  h,
		slots: make([]int32, minSlots),
		mask:  minSlots - 1,
	}
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.entries)
}

// Add records one observation for key, creating the entry when needed.
func (t *Table) Add(key []byte, v fixedpoint.Value) {
	h := t.hash(key)
	if e := t.find(key, h); e != nil {
		e.Stats.Update(v)
		return
	}
	t.insert(key, h, stats.New(v))
}

// Merge folds acc into the entry for key, inserting a copy when absent.
func (t *Table) Merge(key []byte, acc *stats.Accumulator) {
	h := t.hash(key)
	if e := t.find(key, h); e != nil {
		e.Stats.Merge(acc)
		return
	}
	t.insert(key, h, *acc)
}

// Get returns the aggregate for key.
func (t *Table) Get(key []byte) (stats.Accumulator, bool) {
	if e := t.find(key, t.hash(key)); e != nil {
		return e.Stats, true
	}
	return stats.Accumulator{}, false
}

// All yields entries in insertion order. The table must not be modified
// during iteration.
func (t *Table) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for i := range t.entries {
			if !yield(&t.entries[i]) {
				return
			}
		}
	}
}

// Entries returns the backing entry slice. It is invalidated by the next
// insert.
func (t *Table) Entries() []Entry {
	return t.entries
}

func (t *Table) find(key []byte, h uint64) *Entry {
	for i := h & t.mask; ; i = (i + 1) & t.mask {
		idx := t.slots[i]
		if idx == 0 {
			return nil
		}
		e := &t.entries[idx-1]
		if e.hash == h && bytes.Equal(e.Key, key) {
			return e
		}
	}
}

func (t *Table) insert(key []byte, h uint64, acc stats.Accumulator) {
	// Keep load factor <= 1/2 so probe sequences stay short.
	if 2*(len(t.entries)+1) > len(t.slots) {
		t.grow()
	}
	t.entries = append(t.entries, Entry{Key: t.copyKey(key), Stats: acc, hash: h})
	t.place(h, int32(len(t.entries)))
}

func (t *Table) place(h uint64, idx int32) {
	i := h & t.mask
	for t.slots[i] != 0 {
		i = (i + 1) & t.mask
	}
	t.slots[i] = idx
}

func (t *Table) grow() {
	n := len(t.slots) * 2
	t.slots = make([]int32, n)
	t.mask = uint64(n - 1)
	for i := range t.entries {
		t.place(t.entries[i].hash, int32(i+1))
	}
}

// copyKey copies key into the arena. Earlier keys keep pointing at their
// own chunk, so a full chunk is replaced rather than grown.
func (t *Table) copyKey(key []byte) []byte {
	if len(key) > arenaChunkSize/4 {
		return bytes.Clone(key)
	}
	if cap(t.arena)-len(t.arena) < len(key) {
		t.arena = make([]byte, 0, arenaChunkSize)
	}
	start := len(t.arena)
	t.arena = append(t.arena, key...)
	return t.arena[start:len(t.arena):len(t.arena)]
}
