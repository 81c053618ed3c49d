//go:build linux

package stationstats

import "golang.org/x/sys/unix"

// fadviseSequential hints to the kernel that the input will be read
// front to back. Best-effort: errors are silently ignored.
func fadviseSequential(fd int) {
	_ = unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
}
