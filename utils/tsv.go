// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package utils

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
)

// NewTSVWriter returns a gocsv writer producing tab-delimited rows.
func NewTSVWriter(w io.Writer) *gocsv.SafeCSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return gocsv.NewSafeCSVWriter(cw)
}

// NewTSVReader returns a reader for tab-delimited rows, usable with
// gocsv.  Rows may have differing numbers of fields.
func NewTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// WriteTSV writes a slice of structs as a tab-delimited table to the
// named file, compressing as indicated by the file name.
func WriteTSV(name string, rows interface{}) error {

	w, err := Create(name)
	if err != nil {
		return err
	}

	if err := gocsv.MarshalCSV(rows, NewTSVWriter(w)); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

// ReadTSV reads a tab-delimited table from the named file into a
// pointer to a slice of structs.
func ReadTSV(name string, rows interface{}) error {

	r, err := Open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	return gocsv.UnmarshalCSV(NewTSVReader(r), rows)
}
