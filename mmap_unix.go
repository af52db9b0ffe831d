//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// The descriptor is borrowed through SyscallConn; fd.Fd would put the
// file in blocking mode.
func mmap(fd *os.File, size int) (data []byte, err error) {
	rc, err := fd.SyscallConn()
	if err != nil {
		return nil, err
	}
	cerr := rc.Control(func(h uintptr) {
		data, err = unix.Mmap(int(h), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	})
	if cerr != nil {
		return nil, cerr
	}
	return data, err
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}
