// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// Package correlate tests each gene of a presence table for
// association with a phenotype.
//
// A binary phenotype (a strain either shows it or not) is tested
// with the point-biserial correlation, and a continuous or stepped
// phenotype with the Pearson correlation.  Strains are matched to
// table columns by name.  Genes present in all or none of the strains
// carry no information and are skipped.
package correlate

import (
	"fmt"

	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
)

const (
	PointBiserial = "pointbiserial"
	PearsonMethod = "pearson"
	Auto          = "auto"
)

// Phenotype is a phenotype vector aligned to a subset of the
// presence table columns.
type Phenotype struct {

	// Indices of the presence table columns used.
	Columns []int

	// Strain names of the columns used.
	Strains []string

	// Phenotype value for each column used.
	Values []float64

	// The method actually used, PointBiserial or PearsonMethod.
	Method string
}

// Binary reports whether the phenotype takes only the values 0 and
// 1.
func (ph *Phenotype) Binary() bool {
	return ph.Method == PointBiserial
}

func isBinary(x []float64) bool {
	for _, v := range x {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

// Vector builds the phenotype of analysis a for the strains labeling
// the presence table columns.  Strains that are not in the phenotype
// table are left out.  For "auto" analyses, strains with a missing
// value are also left out, and the method is point-biserial when all
// values are 0 or 1, Pearson otherwise.
func Vector(a utils.Analysis, tab *strains.Table, columns []string) (*Phenotype, error) {

	ph := &Phenotype{Method: a.Method}

	present := func(s string) bool {
		for _, p := range tab.Phenotypes() {
			if _, ok := tab.Value(s, p); ok {
				return true
			}
		}
		return false
	}

	positive := func(s, p string) bool {
		v, ok := tab.Value(s, p)
		return ok && v > 0
	}

	switch a.Method {

	case PointBiserial:
		for _, p := range a.Phenotypes {
			if !tab.HasPhenotype(p) {
				return nil, fmt.Errorf("analysis %q: no phenotype %q in table", a.Name, p)
			}
		}
		for j, s := range columns {
			if !present(s) {
				continue
			}
			var y float64
			for _, p := range a.Phenotypes {
				if positive(s, p) {
					y = 1
				}
			}
			ph.Columns = append(ph.Columns, j)
			ph.Strains = append(ph.Strains, s)
			ph.Values = append(ph.Values, y)
		}

	case PearsonMethod:
		for p := range a.Scores {
			if !tab.HasPhenotype(p) {
				return nil, fmt.Errorf("analysis %q: no phenotype %q in table", a.Name, p)
			}
		}
		for j, s := range columns {
			if !present(s) {
				continue
			}
			var y float64
			first := true
			for p, score := range a.Scores {
				if positive(s, p) && (first || score > y) {
					y = score
					first = false
				}
			}
			ph.Columns = append(ph.Columns, j)
			ph.Strains = append(ph.Strains, s)
			ph.Values = append(ph.Values, y)
		}

	case Auto:
		if !tab.HasPhenotype(a.Column) {
			return nil, fmt.Errorf("analysis %q: no phenotype %q in table", a.Name, a.Column)
		}
		for j, s := range columns {
			v, ok := tab.Value(s, a.Column)
			if !ok {
				continue
			}
			ph.Columns = append(ph.Columns, j)
			ph.Strains = append(ph.Strains, s)
			ph.Values = append(ph.Values, v)
		}
		if isBinary(ph.Values) {
			ph.Method = PointBiserial
		} else {
			ph.Method = PearsonMethod
		}

	default:
		return nil, fmt.Errorf("analysis %q: unknown method %q", a.Name, a.Method)
	}

	return ph, nil
}

// DefaultAnalyses returns one "auto" analysis for each phenotype in
// the table.
func DefaultAnalyses(tab *strains.Table) []utils.Analysis {
	var an []utils.Analysis
	for _, p := range tab.Phenotypes() {
		an = append(an, utils.Analysis{
			Name:   p,
			Method: Auto,
			Column: p,
		})
	}
	return an
}
