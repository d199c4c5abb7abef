// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// Package strains reads the phenotype table, locates the proteome
// of each tested strain and records the result for the later
// pipeline stages.
//
// The phenotype table is tab-delimited.  The header row names the
// phenotypes, the first column holds the strain identifiers:
//
//	ID	Double conj.	Single conj.
//	ATMOS43	1	0
//	MBT12	0	1
//
// Empty, NA and nan cells are treated as missing.
package strains

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kshedden/phenogene/utils"
)

// Table holds the phenotype values of all strains.
type Table struct {
	strains    []string
	phenotypes []string
	index      map[string]int
	values     [][]float64
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return math.NaN(), nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(x, 0) {
		return 0, fmt.Errorf("value %q is not finite", s)
	}
	return x, nil
}

// ReadPhenotypes reads a phenotype table.
func ReadPhenotypes(r io.Reader) (*Table, error) {

	cr := utils.NewTSVReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("phenotype table is empty")
	} else if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("phenotype table has no phenotype columns")
	}

	tab := &Table{
		phenotypes: header[1:],
		index:      make(map[string]int),
	}

	seen := make(map[string]bool)
	for _, p := range tab.phenotypes {
		if seen[p] {
			return nil, fmt.Errorf("phenotype %q appears twice in the header", p)
		}
		seen[p] = true
	}

	for {
		toks, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		lnum, _ := cr.FieldPos(0)

		if len(toks) == 1 && strings.TrimSpace(toks[0]) == "" {
			continue
		}
		if len(toks) > len(header) {
			return nil, fmt.Errorf("line %d has %d fields, header has %d", lnum, len(toks), len(header))
		}

		strain := strings.TrimSpace(toks[0])
		if strain == "" {
			return nil, fmt.Errorf("line %d has no strain identifier", lnum)
		}
		if _, ok := tab.index[strain]; ok {
			return nil, fmt.Errorf("strain %s appears twice (line %d)", strain, lnum)
		}

		row := make([]float64, len(tab.phenotypes))
		for j := range row {
			row[j] = math.NaN()
			if j+1 < len(toks) {
				x, err := parseValue(toks[j+1])
				if err != nil {
					return nil, fmt.Errorf("line %d, column %q: %w", lnum, tab.phenotypes[j], err)
				}
				row[j] = x
			}
		}

		tab.index[strain] = len(tab.strains)
		tab.strains = append(tab.strains, strain)
		tab.values = append(tab.values, row)
	}

	return tab, nil
}

// ReadPhenotypeFile reads a phenotype table from a file.
func ReadPhenotypeFile(name string) (*Table, error) {
	r, err := utils.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	tab, err := ReadPhenotypes(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tab, nil
}

// Strains returns the strains in table order.
func (tab *Table) Strains() []string {
	return tab.strains
}

// Phenotypes returns the phenotype names in table order.
func (tab *Table) Phenotypes() []string {
	return tab.phenotypes
}

// HasPhenotype reports whether the table has the named column.
func (tab *Table) HasPhenotype(ph string) bool {
	return tab.column(ph) >= 0
}

func (tab *Table) column(ph string) int {
	for j, p := range tab.phenotypes {
		if p == ph {
			return j
		}
	}
	return -1
}

// Value returns the value of phenotype ph for the strain.  The
// second return value is false if the strain or phenotype is unknown
// or the value is missing.
func (tab *Table) Value(strain, ph string) (float64, bool) {
	i, ok := tab.index[strain]
	if !ok {
		return 0, false
	}
	j := tab.column(ph)
	if j < 0 {
		return 0, false
	}
	x := tab.values[i][j]
	if math.IsNaN(x) {
		return 0, false
	}
	return x, true
}

// Positive returns the strains with a value greater than zero for
// phenotype ph, in table order.
func (tab *Table) Positive(ph string) []string {
	j := tab.column(ph)
	if j < 0 {
		return nil
	}
	var pos []string
	for i, s := range tab.strains {
		if tab.values[i][j] > 0 {
			pos = append(pos, s)
		}
	}
	return pos
}
