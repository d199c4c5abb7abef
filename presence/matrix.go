// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// Package presence builds the gene by strain presence/absence table
// from the matches found by jackhmmer.  A gene is present in a strain
// if any protein of that strain was matched by the gene's reference
// protein.
package presence

import (
	"fmt"
	"sort"

	"github.com/golang-collections/go-datastructures/bitarray"

	"github.com/kshedden/phenogene/search"
)

// Matrix is a binary gene by strain table.  Genes and strains are
// held in sorted order.
type Matrix struct {
	genes   []string
	strains []string

	gindex map[string]int
	sindex map[string]int

	rows []bitarray.BitArray
}

func sortedUnique(x []string) []string {
	seen := make(map[string]bool, len(x))
	var u []string
	for _, v := range x {
		if !seen[v] {
			seen[v] = true
			u = append(u, v)
		}
	}
	sort.Strings(u)
	return u
}

// New returns an empty matrix with the given genes and strains.
func New(genes, strains []string) *Matrix {

	m := &Matrix{
		genes:   sortedUnique(genes),
		strains: sortedUnique(strains),
		gindex:  make(map[string]int),
		sindex:  make(map[string]int),
	}

	for i, g := range m.genes {
		m.gindex[g] = i
	}
	for j, s := range m.strains {
		m.sindex[s] = j
	}

	m.rows = make([]bitarray.BitArray, len(m.genes))
	for i := range m.rows {
		m.rows[i] = bitarray.NewBitArray(uint64(len(m.strains)))
	}

	return m
}

// Build returns the presence table for the given genes and strains.
// Matches involving other genes or strains are ignored; the number
// of ignored matches is returned.
func Build(genes, strains []string, matches []*search.Match) (*Matrix, int) {

	m := New(genes, strains)

	var skipped int
	for _, ma := range matches {
		if !m.Set(ma.Query, ma.Strain) {
			skipped++
		}
	}

	return m, skipped
}

// Set marks gene g as present in strain s.  It returns false if the
// gene or strain is not in the table.
func (m *Matrix) Set(g, s string) bool {
	i, ok := m.gindex[g]
	if !ok {
		return false
	}
	j, ok := m.sindex[s]
	if !ok {
		return false
	}
	if err := m.rows[i].SetBit(uint64(j)); err != nil {
		panic(err)
	}
	return true
}

// Genes returns the row labels.
func (m *Matrix) Genes() []string {
	return m.genes
}

// Strains returns the column labels.
func (m *Matrix) Strains() []string {
	return m.strains
}

// Present reports whether gene g is present in strain s.
func (m *Matrix) Present(g, s string) bool {
	i, ok := m.gindex[g]
	if !ok {
		return false
	}
	j, ok := m.sindex[s]
	if !ok {
		return false
	}
	return m.bit(i, j)
}

func (m *Matrix) bit(i, j int) bool {
	f, err := m.rows[i].GetBit(uint64(j))
	if err != nil {
		panic(err)
	}
	return f
}

// Row returns the presence of gene g in each strain, in column
// order, as 0/1 values.
func (m *Matrix) Row(g string) ([]float64, error) {
	i, ok := m.gindex[g]
	if !ok {
		return nil, fmt.Errorf("gene %s not in presence table", g)
	}
	return m.RowAt(i, nil), nil
}

// RowAt returns row i as 0/1 values, reusing buf if it is large
// enough.
func (m *Matrix) RowAt(i int, buf []float64) []float64 {
	if cap(buf) < len(m.strains) {
		buf = make([]float64, len(m.strains))
	}
	buf = buf[0:len(m.strains)]
	for j := range buf {
		buf[j] = 0
		if m.bit(i, j) {
			buf[j] = 1
		}
	}
	return buf
}

// CountAt returns the number of strains in which gene i is present.
func (m *Matrix) CountAt(i int) int {
	var n int
	for j := range m.strains {
		if m.bit(i, j) {
			n++
		}
	}
	return n
}

// Count returns the number of strains in which gene g is present.
func (m *Matrix) Count(g string) int {
	i, ok := m.gindex[g]
	if !ok {
		return 0
	}
	return m.CountAt(i)
}

// Constant reports whether gene g is present in all strains or in
// none of them.
func (m *Matrix) Constant(g string) bool {
	n := m.Count(g)
	return n == 0 || n == len(m.strains)
}

// StrainCount returns the number of genes present in strain s.
func (m *Matrix) StrainCount(s string) int {
	j, ok := m.sindex[s]
	if !ok {
		return 0
	}
	var n int
	for i := range m.genes {
		if m.bit(i, j) {
			n++
		}
	}
	return n
}
