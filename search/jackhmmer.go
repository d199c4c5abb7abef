// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// Package search runs jackhmmer with the reference proteome as the
// query against the combined database, and turns the resulting
// domain table into a list of query/target matches.
package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kshedden/phenogene/utils"
)

// Jackhmmer describes one jackhmmer invocation.
type Jackhmmer struct {

	// The executable.
	Path string

	// Reporting and inclusion thresholds.
	E, IncE, DomE, IncDomE float64

	NumCPU int

	// The --domtblout file.
	Domtbl string

	// The sequence database searched.
	Database string
}

// NewJackhmmer returns a jackhmmer invocation configured from config.
func NewJackhmmer(config *utils.Config) *Jackhmmer {
	t := config.Thresholds
	return &Jackhmmer{
		Path:     config.Jackhmmer,
		E:        t.E,
		IncE:     t.IncE,
		DomE:     t.DomE,
		IncDomE:  t.IncDomE,
		NumCPU:   config.NumCPU,
		Domtbl:   config.DomtblFileName,
		Database: config.DatabaseFileName,
	}
}

func ftoa(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Args returns the command line arguments.  The query sequences are
// read from stdin.
func (j *Jackhmmer) Args() []string {
	return []string{
		"-E", ftoa(j.E),
		"--incE", ftoa(j.IncE),
		"--domE", ftoa(j.DomE),
		"--incdomE", ftoa(j.IncDomE),
		"--cpu", strconv.Itoa(j.NumCPU),
		"--domtblout", j.Domtbl,
		"-", j.Database,
	}
}

// Run runs jackhmmer with the query sequences read from r.  The
// per-iteration alignment output is discarded.
func (j *Jackhmmer) Run(ctx context.Context, r io.Reader, logger *log.Logger) error {

	args := j.Args()
	if logger != nil {
		logger.Printf("Running command: '%s %s'", j.Path, strings.Join(args, " "))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, j.Path, args...)
	cmd.Stdin = r
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if logger != nil && msg != "" {
			logger.Print(msg)
		}
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", j.Path, err, msg)
		}
		return fmt.Errorf("%s: %w", j.Path, err)
	}

	return nil
}

// RunFile runs jackhmmer on the proteins in the named, possibly
// compressed, file, starting at the given offset in the decompressed
// data.
func (j *Jackhmmer) RunFile(ctx context.Context, query string, offset int64, logger *log.Logger) error {

	r, err := utils.Open(query)
	if err != nil {
		return err
	}
	defer r.Close()

	if offset > 0 {
		if logger != nil {
			logger.Printf("Skipping the first %d bytes of %s", offset, query)
		}
		if _, err := io.CopyN(io.Discard, r, offset); err != nil {
			return fmt.Errorf("seeking to %d in %s: %w", offset, query, err)
		}
	}

	return j.Run(ctx, r, logger)
}
