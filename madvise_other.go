//go:build !linux

package stationstats

// madviseSequential is a no-op on non-Linux platforms.
func madviseSequential(data []byte) {
	// No-op
}
