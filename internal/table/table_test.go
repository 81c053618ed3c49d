package table

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"testing"

	"github.com/tamirms/stationstats/internal/fixedpoint"
	"github.com/tamirms/stationstats/internal/stats"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

func fnvHash(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// collidingHash sends every key to the same probe sequence.
func collidingHash([]byte) uint64 { return 42 }

var hashers = []struct {
	name string
	fn   HashFunc
}{
	{"fnv", fnvHash},
	{"colliding", collidingHash},
}

func TestAddAndGet(t *testing.T) {
	for _, h := range hashers {
		t.Run(h.name, func(t *testing.T) {
			tbl := New(h.fn)
			tbl.Add([]byte("A"), 50)
			tbl.Add([]byte("B"), -32)
			tbl.Add([]byte("A"), 90)

			if tbl.Len() != 2 {
				t.Fatalf("Len() = %d, want 2", tbl.Len())
			}
			a, ok := tbl.Get([]byte("A"))
			if !ok {
				t.Fatal("A missing")
			}
			if want := (stats.Accumulator{Min: 50, Max: 90, Sum: 140, Count: 2}); a != want {
				t.Errorf("A = %+v, want %+v", a, want)
			}
			b, ok := tbl.Get([]byte("B"))
			if !ok || b.Count != 1 || b.Min != -32 {
				t.Errorf("B = %+v, %v", b, ok)
			}
			if _, ok := tbl.Get([]byte("C")); ok {
				t.Error("C should be absent")
			}
		})
	}
}

// TestKeysAreCopied mutates the caller's buffer after insert.
func TestKeysAreCopied(t *testing.T) {
	tbl := New(fnvHash)
	buf := []byte("Oslo")
	tbl.Add(buf, 10)
	copy(buf, "XXXX")

	if _, ok := tbl.Get([]byte("Oslo")); !ok {
		t.Fatal("key changed with caller buffer")
	}
	for e := range tbl.All() {
		if string(e.Key) != "Oslo" {
			t.Fatalf("stored key = %q", e.Key)
		}
	}
}

func TestEmptyKey(t *testing.T) {
	tbl := New(fnvHash)
	tbl.Add(nil, 10)
	tbl.Add([]byte{}, 20)
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
	if a, ok := tbl.Get(nil); !ok || a.Count != 2 {
		t.Fatalf("Get(empty) = %+v, %v", a, ok)
	}
}

// TestGrowth inserts enough keys to force several resizes and checks every
// aggregate against a plain map.
func TestGrowth(t *testing.T) {
	rng := newTestRNG(t)
	tbl := New(fnvHash)
	want := make(map[string]stats.Accumulator)

	for i := 0; i < 200000; i++ {
		key := fmt.Sprintf("station-%d", rng.IntN(20000))
		v := fixedpoint.Value(rng.IntN(1999) - 999)
		tbl.Add([]byte(key), v)
		if a, ok := want[key]; ok {
			a.Update(v)
			want[key] = a
		} else {
			want[key] = stats.New(v)
		}
	}

	if tbl.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), len(want))
	}
	for key, w := range want {
		got, ok := tbl.Get([]byte(key))
		if !ok || got != w {
			t.Fatalf("%s: got %+v (%v), want %+v", key, got, ok, w)
		}
	}
	if 2*tbl.Len() > len(tbl.slots) {
		t.Errorf("load factor exceeded: %d entries in %d slots", tbl.Len(), len(tbl.slots))
	}
}

func TestLongKey(t *testing.T) {
	tbl := New(fnvHash)
	long := make([]byte, arenaChunkSize)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	tbl.Add(long, 1)
	tbl.Add([]byte("short"), 2)
	if a, ok := tbl.Get(long); !ok || a.Sum != 1 {
		t.Fatalf("long key lookup = %+v, %v", a, ok)
	}
}

func TestMerge(t *testing.T) {
	dst := New(fnvHash)
	dst.Add([]byte("A"), 50)

	src := New(fnvHash)
	src.Add([]byte("A"), -10)
	src.Add([]byte("B"), 30)

	for e := range src.All() {
		dst.Merge(e.Key, &e.Stats)
	}

	a, _ := dst.Get([]byte("A"))
	if want := (stats.Accumulator{Min: -10, Max: 50, Sum: 40, Count: 2}); a != want {
		t.Errorf("A = %+v, want %+v", a, want)
	}
	b, _ := dst.Get([]byte("B"))
	if want := stats.New(30); b != want {
		t.Errorf("B = %+v, want %+v", b, want)
	}

	// Merged entries are copies: later source updates must not leak.
	src.Add([]byte("B"), 99)
	if b2, _ := dst.Get([]byte("B")); b2 != b {
		t.Errorf("B changed after source update: %+v", b2)
	}
}

func TestAllEarlyStop(t *testing.T) {
	tbl := New(fnvHash)
	for _, k := range []string{"a", "b", "c"} {
		tbl.Add([]byte(k), 1)
	}
	n := 0
	for range tbl.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d entries", n)
	}
	if len(tbl.Entries()) != 3 {
		t.Fatalf("Entries() len = %d", len(tbl.Entries()))
	}
}
