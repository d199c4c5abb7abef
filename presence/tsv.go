// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package presence

import (
	"fmt"
	"io"

	"github.com/kshedden/phenogene/utils"
)

// Write writes the table with a header row "gene<tab>strain...",
// followed by one row of 0/1 values per gene.
func (m *Matrix) Write(w io.Writer) error {

	tw := utils.NewTSVWriter(w)

	rec := make([]string, len(m.strains)+1)
	rec[0] = "gene"
	copy(rec[1:], m.strains)
	if err := tw.Write(rec); err != nil {
		return err
	}

	for i, g := range m.genes {
		rec[0] = g
		for j := range m.strains {
			rec[j+1] = "0"
			if m.bit(i, j) {
				rec[j+1] = "1"
			}
		}
		if err := tw.Write(rec); err != nil {
			return err
		}
	}

	tw.Flush()
	return tw.Error()
}

// WriteFile writes the table to the named file, compressing it if
// the name ends with .sz or .gz.
func (m *Matrix) WriteFile(name string) error {

	w, err := utils.Create(name)
	if err != nil {
		return err
	}
	if err := m.Write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Read reads a table written by Write.
func Read(r io.Reader) (*Matrix, error) {

	cr := utils.NewTSVReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("presence table is empty")
	} else if err != nil {
		return nil, err
	}
	strains := header[1:]

	type row struct {
		gene string
		line int
		vals []string
	}
	var rows []row
	var genes []string
	for {
		toks, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		lnum, _ := cr.FieldPos(0)
		if len(toks) != len(header) {
			return nil, fmt.Errorf("presence table line %d has %d fields, expected %d", lnum, len(toks), len(header))
		}
		rows = append(rows, row{toks[0], lnum, toks[1:]})
		genes = append(genes, toks[0])
	}

	m := New(genes, strains)
	if len(m.genes) != len(genes) || len(m.strains) != len(strains) {
		return nil, fmt.Errorf("presence table has duplicate genes or strains")
	}

	for _, r := range rows {
		for j, v := range r.vals {
			switch v {
			case "0":
			case "1":
				m.Set(r.gene, strains[j])
			default:
				return nil, fmt.Errorf("presence table line %d: value %q is not 0 or 1", r.line, v)
			}
		}
	}

	return m, nil
}

// ReadFile reads a table from the named, possibly compressed, file.
func ReadFile(name string) (*Matrix, error) {

	r, err := utils.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}
