//go:build linux

package stationstats

import "golang.org/x/sys/unix"

// madviseSequential asks the kernel to read ahead aggressively on a mapping
// that is scanned once. Best-effort: errors are silently ignored.
func madviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
