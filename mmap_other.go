//go:build !unix && !windows

package main

import (
	"io"
	"os"
)

// No mapping primitive here (plan9, wasm); read the file instead.
func mmap(fd *os.File, size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(fd, b); err != nil {
		return nil, err
	}
	return b, nil
}

func munmap(b []byte) error { return nil }
