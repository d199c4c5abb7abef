// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package utils

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/pgzip"
)

const (
	// Longest line accepted by NewScanner.
	maxline int = 1024 * 1024
)

type multiCloser []io.Closer

// Close closes the closers in reverse order, returning the first
// error.
func (mc multiCloser) Close() error {
	var first error
	for i := len(mc) - 1; i >= 0; i-- {
		if err := mc[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type readCloser struct {
	io.Reader
	multiCloser
}

type writeCloser struct {
	io.Writer
	multiCloser
}

// Open opens a file for reading.  Gzip (.gz) and Snappy (.sz)
// compression are handled automatically.
func Open(name string) (io.ReadCloser, error) {

	fid, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := pgzip.NewReader(fid)
		if err != nil {
			fid.Close()
			return nil, err
		}
		return &readCloser{gz, multiCloser{fid, gz}}, nil
	case strings.HasSuffix(name, ".sz"):
		return &readCloser{snappy.NewReader(fid), multiCloser{fid}}, nil
	}

	return fid, nil
}

// Create creates a file for writing, compressing with Gzip or Snappy
// if the name ends with .gz or .sz.  The returned value must be
// closed to flush all data.
func Create(name string) (io.WriteCloser, error) {

	fid, err := os.Create(name)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(name, ".gz"):
		gz := pgzip.NewWriter(fid)
		return &writeCloser{gz, multiCloser{fid, gz}}, nil
	case strings.HasSuffix(name, ".sz"):
		sz := snappy.NewBufferedWriter(fid)
		return &writeCloser{sz, multiCloser{fid, sz}}, nil
	}

	bw := bufio.NewWriter(fid)
	return &writeCloser{bw, multiCloser{fid, flusher{bw}}}, nil
}

type flusher struct {
	w *bufio.Writer
}

func (f flusher) Close() error {
	return f.w.Flush()
}

// NewScanner returns a line scanner that accepts long lines.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxline)
	return scanner
}
