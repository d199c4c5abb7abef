// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package correlate

import (
	"fmt"
	"math"
	"sort"

	"github.com/kshedden/phenogene/presence"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
)

// Result is the association test of one gene.
type Result struct {
	Gene string

	// Correlation and its p-value.
	R, P float64

	// Benjamini-Hochberg adjusted p-value over all tested genes.
	Q float64

	// Fisher exact test p-value, NaN unless the phenotype is binary.
	FisherP float64

	// Number of strains in which the gene is present, out of N.
	NPresent, N int
}

// Report holds the results of one analysis.
type Report struct {
	Analysis utils.Analysis

	// PointBiserial or PearsonMethod.
	Method string

	// The strains used.
	Strains []string

	// Genes that are present in all or none of the strains.
	Skipped int

	// Sorted by p-value, then by gene.
	Results []*Result
}

// Run tests every gene in the presence table for association with the
// phenotype of analysis a.
func Run(a utils.Analysis, m *presence.Matrix, tab *strains.Table) (*Report, error) {

	ph, err := Vector(a, tab, m.Strains())
	if err != nil {
		return nil, err
	}

	if len(ph.Values) < 3 {
		return nil, fmt.Errorf("analysis %q: %w (%d strains)", a.Name, ErrTooFew, len(ph.Values))
	}
	if isConstant(ph.Values) {
		return nil, fmt.Errorf("analysis %q: phenotype is the same for all %d strains", a.Name, len(ph.Values))
	}

	rpt := &Report{
		Analysis: a,
		Method:   ph.Method,
		Strains:  ph.Strains,
	}

	var row []float64
	x := make([]float64, len(ph.Columns))
	for i, g := range m.Genes() {

		row = m.RowAt(i, row)
		var np int
		for k, j := range ph.Columns {
			x[k] = row[j]
			if row[j] == 1 {
				np++
			}
		}

		if np == 0 || np == len(x) {
			rpt.Skipped++
			continue
		}

		r, p, err := Pearson(x, ph.Values)
		if err != nil {
			return nil, fmt.Errorf("analysis %q, gene %s: %w", a.Name, g, err)
		}

		res := &Result{
			Gene:     g,
			R:        r,
			P:        p,
			FisherP:  math.NaN(),
			NPresent: np,
			N:        len(x),
		}
		if ph.Binary() {
			res.FisherP = fisher(x, ph.Values)
		}
		rpt.Results = append(rpt.Results, res)
	}

	pv := make([]float64, len(rpt.Results))
	for i, r := range rpt.Results {
		pv[i] = r.P
	}
	for i, q := range BenjaminiHochberg(pv) {
		rpt.Results[i].Q = q
	}

	sort.SliceStable(rpt.Results, func(i, j int) bool {
		ri, rj := rpt.Results[i], rpt.Results[j]
		if ri.P != rj.P {
			return ri.P < rj.P
		}
		return ri.Gene < rj.Gene
	})

	return rpt, nil
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// fisher tabulates presence against a binary phenotype and returns
// the Fisher exact test p-value.
func fisher(x, y []float64) float64 {
	var t [2][2]int
	for i := range x {
		t[1-int(x[i])][1-int(y[i])]++
	}
	return FisherExact(t[0][0], t[0][1], t[1][0], t[1][1])
}
