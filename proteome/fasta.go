// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// Package proteome reads per-strain protein FASTA files and builds
// the combined database searched by jackhmmer.
package proteome

import (
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kshedden/phenogene/utils"
)

// lineWidth is the FASTA line length of written sequences.
const lineWidth = 60

// Scan calls f for every protein in the FASTA data read from r.
// Scanning stops at the first error returned by f.
func Scan(r io.Reader, f func(*linear.Seq) error) error {

	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		if err := f(s); err != nil {
			return err
		}
	}

	return sc.Error()
}

// ScanFile is like Scan, reading from a possibly compressed file.
func ScanFile(name string, f func(*linear.Seq) error) error {

	r, err := utils.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	return Scan(r, f)
}

// IDs returns the identifiers of all proteins in the file, in file
// order.
func IDs(name string) ([]string, error) {

	var ids []string
	err := ScanFile(name, func(s *linear.Seq) error {
		ids = append(ids, s.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}
