package main

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxBufSize is the most stream input held in memory. Anything
// larger is spooled to a temporary file and mapped.
const MaxBufSize = 4 * 1024 * 1024

// A Spooler materializes a stream of unknown length. Input up to
// Max bytes stays in memory; past that it moves, once, to a file
// in Dir (os.TempDir when empty).
type Spooler struct {
	Max int
	Dir string
}

// Materialize reads r to EOF. When the input was spooled, the
// returned path names the backing file and the caller removes it
// after closing the view. On error nothing is left on disk.
func (s *Spooler) Materialize(r io.Reader) (v View, path string, err error) {
	var (
		br  = bufio.NewReaderSize(r, 64*1024)
		buf []byte
		sp  *spool
	)
	defer func() {
		if err != nil && sp != nil {
			sp.discard()
		}
	}()
	for {
		chunk, rerr := br.ReadSlice('\n')
		if len(chunk) > 0 {
			switch {
			case sp != nil:
				if _, err = sp.w.Write(chunk); err != nil {
					return nil, "", err
				}
			default:
				buf = append(buf, chunk...)
				if len(buf) > s.Max {
					if sp, err = s.spill(buf); err != nil {
						return nil, "", err
					}
					buf = nil
				}
			}
		}
		if rerr == bufio.ErrBufferFull {
			continue
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, "", rerr
		}
	}
	if sp == nil {
		return memView(buf), "", nil
	}
	if err = sp.finish(); err != nil {
		return nil, "", err
	}
	if v, err = openMapped(sp.name); err != nil {
		return nil, "", err
	}
	return v, sp.name, nil
}

func (s *Spooler) spill(buf []byte) (*spool, error) {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	name := filepath.Join(dir, uuid.New().String())
	fd, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}
	sp := &spool{fd: fd, w: bufio.NewWriterSize(fd, 64*1024), name: name}
	if _, err := sp.w.Write(buf); err != nil {
		sp.discard()
		return nil, err
	}
	return sp, nil
}

type spool struct {
	fd   *os.File
	w    *bufio.Writer
	name string
}

func (sp *spool) finish() error {
	err := sp.w.Flush()
	if cerr := sp.fd.Close(); err == nil {
		err = cerr
	}
	sp.fd = nil
	return err
}

// discard closes and removes the spool file after a failure. The
// close error is dropped; the failure that got us here is reported.
func (sp *spool) discard() {
	if sp.fd != nil {
		sp.fd.Close()
		sp.fd = nil
	}
	if err := os.Remove(sp.name); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to remove temporary file %s: %v", sp.name, err)
	}
}
