// Copyright 2017 "as". All rights reserved. The program and its corresponding
// gotools package is governed by an MIT license.
//
// Tac writes files to standard output, last line first.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	trace "github.com/as/log"
	"github.com/as/mute"
)

const Prefix = "tac: "

// remove deletes a spool file once its input has been written.
var remove = os.Remove

// Version is set at link time with -ldflags "-X main.Version=...".
var Version = "0.3.0"

func init() {
	log.SetPrefix(Prefix)
	log.SetFlags(0)
	trace.Service = "tac"
}

func main() {
	trace.DebugOn = debugEnv(os.Getenv("TAC_DEBUG"))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func debugEnv(s string) bool {
	return s != "" && s != "0"
}

// run is main without the process exit. Diagnostics go through the
// log package; help and version go to stdout.
func run(a []string, stdin io.Reader, stdout io.Writer) int {
	o, err := parseArgs(a)
	if err != nil {
		log.Println(err)
		log.Println("Try 'tac -h' for more information")
		return 1
	}
	switch o.action {
	case actHelp:
		version(stdout)
		usage(stdout)
		return 0
	case actVersion:
		version(stdout)
		return 0
	}

	w := NewWriter(stdout)
	for _, name := range o.files {
		err := tac(w, name, stdin)
		if err == nil {
			continue
		}
		var oe *OutputError
		if !errors.As(err, &oe) {
			log.Printf("%s: %v", name, err)
		}
		return 1
	}
	return 0
}

type action int

const (
	actRun action = iota
	actHelp
	actVersion
)

type opts struct {
	action action
	files  []string
}

// parseArgs accepts flags anywhere before a literal "--". Everything
// after "--" is a file, and "-" names standard input. The first help
// or version flag wins, and once one is seen a later bad flag is
// ignored: tac exits before it would be looked at.
func parseArgs(a []string) (o opts, err error) {
	set := func(act action) func(string) error {
		return func(string) error {
			if o.action == actRun {
				o.action = act
			}
			return nil
		}
	}
	f := flag.NewFlagSet("main", flag.ContinueOnError)
	f.BoolFunc("h", "", set(actHelp))
	f.BoolFunc("help", "", set(actHelp))
	f.BoolFunc("?", "", set(actHelp))
	f.BoolFunc("v", "", set(actVersion))
	f.BoolFunc("version", "", set(actVersion))

	// flag stops at the first file name, so parsing resumes after each
	// run of names. mute.Parse opens os.DevNull on every call and never
	// closes it; only re-enter it when a flag-like token is next.
	for {
		for len(a) > 0 && !flagLike(a[0]) {
			o.files = append(o.files, a[0])
			a = a[1:]
		}
		if len(a) == 0 {
			break
		}
		if err = mute.Parse(f, a); err != nil {
			if o.action != actRun {
				return o, nil
			}
			return o, err
		}
		rest := f.Args()
		if n := len(a) - len(rest); n > 0 && a[n-1] == "--" {
			o.files = append(o.files, rest...)
			break
		}
		a = rest
	}
	if len(o.files) == 0 {
		o.files = []string{"-"}
	}
	return o, nil
}

func flagLike(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

// tac reverses one input onto w. The view is released and any spool
// file removed before returning, whatever happened in between.
func tac(w *Writer, name string, stdin io.Reader) (err error) {
	v, spool, err := materialize(name, stdin)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := v.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if spool == "" {
			return
		}
		if rerr := remove(spool); rerr != nil {
			log.Printf("failed to remove temporary file %s: %v", spool, rerr)
		}
	}()

	trace.Debug.Add("input", name, "size", v.Len(), "view", fmt.Sprintf("%T", v), "spool", spool).Printf("materialized")
	b0, n0 := w.Bytes(), w.Newlines()
	err = reverse(w, v)
	trace.Debug.Add("input", name, "bytes", w.Bytes()-b0, "newlines", w.Newlines()-n0).Printf("reversed")
	return err
}

func materialize(name string, stdin io.Reader) (View, string, error) {
	if name == "-" {
		sp := &Spooler{Max: MaxBufSize}
		return sp.Materialize(stdin)
	}
	v, err := openMapped(name)
	return v, "", err
}

func reverse(w *Writer, v View) error {
	b := v.Bytes()
	for sc := NewScanner(b); ; {
		sp, ok := sc.Next()
		if !ok {
			break
		}
		if err := w.Emit(b, sp); err != nil {
			return err
		}
	}
	return w.Flush()
}

func version(w io.Writer) {
	fmt.Fprintf(w, "tac %s\n", Version)
}

func usage(w io.Writer) {
	fmt.Fprint(w, `
NAME
	tac - catenate files, last line first

SYNOPSIS
	tac [-h | -v] [--] [file ...]

DESCRIPTION
	Tac writes each named file to stdout with its lines in
	reverse order. Line contents, including the presence or
	absence of a final newline, are left untouched. Files are
	processed in the order given and their output is not
	separated.

	With no files, or for a file named -, tac reads stdin.
	Input from stdin is held in memory up to 4MiB and spooled
	to a temporary file in $TMPDIR beyond that.

	Flags are not recognized after --.

FLAGS
	-h, --help	Print this help and exit
	-v, --version	Print the version and exit

ENVIRONMENT
	TAC_DEBUG	Write a JSON trace of each input to stderr
	TMPDIR		Directory for spooled stdin

EXAMPLE
	Print the last ten lines of a log, newest first:
	tac /var/log/syslog | sed 10q

	Reversing twice is a no-op:
	tac file | tac | cmp - file

BUGS
	A file that shrinks while tac has it mapped may fault.
	Tac stops at the first file it cannot read.
`)
}
