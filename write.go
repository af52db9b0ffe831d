package main

import (
	"bufio"
	"io"

	"github.com/as/io/count"
)

// OutputError marks a failed write to the destination. Nothing
// useful can be said on a broken stdout, so callers exit quietly.
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string { return "write: " + e.Err.Error() }
func (e *OutputError) Unwrap() error { return e.Err }

// Writer emits spans of a view to its destination unchanged.
type Writer struct {
	bw    *bufio.Writer
	nl    *count.Writer
	bytes int64
}

// NewWriter buffers output to w; call Flush after each input.
func NewWriter(w io.Writer) *Writer {
	nl := count.NewWriter("\n")
	return &Writer{
		bw: bufio.NewWriterSize(io.MultiWriter(w, nl), 64*1024),
		nl: nl,
	}
}

// Emit writes b[s.Start:s.End] in full.
func (w *Writer) Emit(b []byte, s Span) error {
	n, err := w.bw.Write(b[s.Start:s.End])
	w.bytes += int64(n)
	if err != nil {
		return &OutputError{err}
	}
	return nil
}

// Flush writes any buffered spans to the destination.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return &OutputError{err}
	}
	return nil
}

// Bytes is the number of bytes handed to Emit so far.
func (w *Writer) Bytes() int64 { return w.bytes }

// Newlines is the number of newline bytes that reached the destination.
func (w *Writer) Newlines() int64 { return w.nl.Seen() }
