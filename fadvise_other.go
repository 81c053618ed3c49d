//go:build !linux

package stationstats

// fadviseSequential is a no-op on non-Linux platforms.
func fadviseSequential(fd int) {}
