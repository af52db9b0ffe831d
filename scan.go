package main

import "bytes"

// Span is the half-open byte range [Start, End) of one line,
// trailing newline included when the line has one.
type Span struct {
	Start, End int
}

func (s Span) Len() int { return s.End - s.Start }

// Scanner walks b from the end toward the start and yields one
// line per call to Next. Every byte is looked at once.
type Scanner struct {
	b []byte
	i int
}

// NewScanner returns a Scanner positioned after the last byte of b.
func NewScanner(b []byte) *Scanner {
	return &Scanner{
		b: b,
		i: len(b),
	}
}

// Next returns the line ending at the current position. The byte
// just before the position belongs to that line whether or not it
// is a newline; the start of b always closes the first line.
func (s *Scanner) Next() (Span, bool) {
	if s.i <= 0 {
		return Span{}, false
	}
	end := s.i
	s.i = bytes.LastIndexByte(s.b[:end-1], '\n') + 1
	return Span{s.i, end}, true
}

// Lines returns every span of b, last line first.
func Lines(b []byte) (spans []Span) {
	for sc := NewScanner(b); ; {
		sp, ok := sc.Next()
		if !ok {
			return spans
		}
		spans = append(spans, sp)
	}
}
