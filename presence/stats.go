// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package presence

import (
	"math"

	"github.com/kshedden/phenogene/search"
	"github.com/kshedden/phenogene/utils"
)

// GeneStat summarizes the matches of one reference gene.
type GeneStat struct {
	Gene    string `csv:"gene"`
	Strains int    `csv:"n_strains"`
	Matches int    `csv:"n_matches"`

	// Largest number of matched proteins in a single strain.
	MaxCopies int `csv:"max_copies"`

	// Smallest full sequence E-value, NaN if there are no matches.
	BestE utils.Float `csv:"best_E"`
}

// StrainStat summarizes the matches into one strain.
type StrainStat struct {
	Strain  string `csv:"strain"`
	Genes   int    `csv:"n_genes"`
	Matches int    `csv:"n_matches"`
}

// inIndex returns the row and column of a match, or false if the
// match is not in the matrix.
func (m *Matrix) inIndex(ma *search.Match) (int, int, bool) {
	i, ok := m.gindex[ma.Query]
	if !ok {
		return 0, 0, false
	}
	j, ok := m.sindex[ma.Strain]
	if !ok {
		return 0, 0, false
	}
	return i, j, true
}

// GeneStats returns one summary per gene, in gene order.  Only
// matches within the genes and strains of m are counted.
func GeneStats(m *Matrix, matches []*search.Match) []*GeneStat {

	stats := make([]*GeneStat, len(m.genes))
	for i, g := range m.genes {
		stats[i] = &GeneStat{
			Gene:    g,
			Strains: m.CountAt(i),
			BestE:   utils.Float(math.NaN()),
		}
	}

	copies := make(map[[2]int]int)
	for _, ma := range matches {
		i, j, ok := m.inIndex(ma)
		if !ok {
			continue
		}
		st := stats[i]
		st.Matches++
		if math.IsNaN(float64(st.BestE)) || ma.E < st.BestE {
			st.BestE = ma.E
		}
		k := [2]int{i, j}
		copies[k]++
		if copies[k] > st.MaxCopies {
			st.MaxCopies = copies[k]
		}
	}

	return stats
}

// StrainStats returns one summary per strain, in strain order.
func StrainStats(m *Matrix, matches []*search.Match) []*StrainStat {

	stats := make([]*StrainStat, len(m.strains))
	for j, s := range m.strains {
		stats[j] = &StrainStat{Strain: s}
	}

	for i := range m.genes {
		for j := range m.strains {
			if m.bit(i, j) {
				stats[j].Genes++
			}
		}
	}

	for _, ma := range matches {
		if _, j, ok := m.inIndex(ma); ok {
			stats[j].Matches++
		}
	}

	return stats
}
