package stationstats

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	streamerrors "github.com/tamirms/stationstats/errors"
	"github.com/tamirms/stationstats/internal/table"
)

// HashAlgorithmID identifies the hash function used to place keys in
// worker tables.
type HashAlgorithmID uint16

const (
	// HashXXH64 uses xxHash64.
	HashXXH64 HashAlgorithmID = 0

	// HashXXH3 uses the 64-bit variant of xxHash3.
	HashXXH3 HashAlgorithmID = 1

	// HashMurmur3 uses the 64-bit half of MurmurHash3 x64_128.
	HashMurmur3 HashAlgorithmID = 2
)

// String returns the algorithm name.
func (h HashAlgorithmID) String() string {
	switch h {
	case HashXXH64:
		return "xxh64"
	case HashXXH3:
		return "xxh3"
	case HashMurmur3:
		return "murmur3"
	default:
		return "unknown"
	}
}

// ParseHashAlgorithm returns the algorithm with the given name.
func ParseHashAlgorithm(name string) (HashAlgorithmID, error) {
	for _, h := range []HashAlgorithmID{HashXXH64, HashXXH3, HashMurmur3} {
		if h.String() == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", streamerrors.ErrUnknownHash, name)
}

// newHashFunc returns the key hash for h.
func newHashFunc(h HashAlgorithmID) (table.HashFunc, error) {
	switch h {
	case HashXXH64:
		return xxhash.Sum64, nil
	case HashXXH3:
		return xxh3.Hash, nil
	case HashMurmur3:
		return murmur3.Sum64, nil
	default:
		return nil, fmt.Errorf("%w: %d", streamerrors.ErrUnknownHash, h)
	}
}
