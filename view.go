package main

import (
	"errors"
	"fmt"
	"os"
)

// A View is the whole content of one input. The slice returned by
// Bytes is read-only and valid until Close.
type View interface {
	Bytes() []byte
	Len() int
	Close() error
}

var (
	errNotRegular = errors.New("not a regular file")
	errTooLarge   = errors.New("file too large to map")
)

// memView holds input that was read from a stream and fit in memory.
type memView []byte

func (m memView) Bytes() []byte { return m }
func (m memView) Len() int      { return len(m) }
func (m memView) Close() error  { return nil }

// mappedView is a read-only memory map of a regular file.
type mappedView struct {
	data []byte
}

func (m *mappedView) Bytes() []byte { return m.data }
func (m *mappedView) Len() int      { return len(m.data) }

func (m *mappedView) Close() error {
	if m.data == nil {
		return nil
	}
	err := munmap(m.data)
	m.data = nil
	return err
}

// openMapped maps the file at path. The descriptor is closed before
// returning; the mapping stays valid until the view is closed.
func openMapped(path string) (View, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	fi, err := fd.Stat()
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, errNotRegular
	}
	size := fi.Size()
	if size == 0 {
		return &mappedView{}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%w: %d bytes", errTooLarge, size)
	}
	data, err := mmap(fd, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &mappedView{data: data}, nil
}
