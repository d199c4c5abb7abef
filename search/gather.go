// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package search

import (
	"math"
	"sort"
	"strings"

	"github.com/kshedden/phenogene/utils"
)

// Match is a reference protein (query) together with a homolog
// (target) found in one of the strains.
type Match struct {
	Query    string      `csv:"Query"`
	Target   string      `csv:"Target"`
	Strain   string      `csv:"Target strain"`
	E        utils.Float `csv:"E-value"`
	DomE     utils.Float `csv:"Domain E-value"`
	Coverage utils.Float `csv:"Coverage"`
	LenDiff  utils.Float `csv:"Length diff"`
}

// Criteria decide which query/target pairs are kept as matches.
type Criteria struct {
	E        float64
	DomE     float64
	Coverage float64
	LenDiff  float64
}

// NewCriteria returns the gathering criteria of the thresholds.
func NewCriteria(t utils.Thresholds) Criteria {
	return Criteria{
		E:        t.GatherE,
		DomE:     t.GatherDomE,
		Coverage: t.GatherCov,
		LenDiff:  t.LenDiff,
	}
}

// GatherStats summarizes a call to Gather.
type GatherStats struct {
	Rows       int
	Pairs      int
	Kept       int
	NoStrain   int
	FailE      int
	FailDomE   int
	FailCov    int
	FailLength int
}

type pairKey struct {
	query, target string
}

// StrainIndex assigns database sequence identifiers to strains.
type StrainIndex struct {
	// Strain names, longest first.
	names []string
}

func NewStrainIndex(strains []string) *StrainIndex {
	names := append([]string(nil), strains...)
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return &StrainIndex{names: names}
}

// Strain returns the strain of a database identifier, which has the
// form <strain>_<protein id>.  The longest matching strain name is
// used.
func (si *StrainIndex) Strain(target string) (string, bool) {
	for _, s := range si.names {
		if strings.HasPrefix(target, s+"_") {
			return s, true
		}
	}
	return "", false
}

// coverage returns the fraction of positions 1..qlen covered by the
// union of the profile intervals of the domains.
func coverage(doms []*DomainHit, qlen int) float64 {

	if qlen <= 0 {
		return 0
	}

	type interval struct{ a, b int }
	var iv []interval
	for _, d := range doms {
		a, b := d.HMMFrom, d.HMMTo
		if a > b {
			a, b = b, a
		}
		if a < 1 {
			a = 1
		}
		if b > qlen {
			b = qlen
		}
		if a <= b {
			iv = append(iv, interval{a, b})
		}
	}
	sort.Slice(iv, func(i, j int) bool { return iv[i].a < iv[j].a })

	var n int
	end := 0
	for _, x := range iv {
		if x.b <= end {
			continue
		}
		if x.a > end {
			n += x.b - x.a + 1
		} else {
			n += x.b - end
		}
		end = x.b
	}

	return float64(n) / float64(qlen)
}

func lengthDiff(qlen, tlen int) float64 {
	m := qlen
	if tlen < m {
		m = tlen
	}
	if m <= 0 {
		return math.Inf(1)
	}
	return math.Abs(float64(qlen-tlen)) / float64(m)
}

// Gather groups the domain rows by query and target and returns the
// pairs meeting the criteria, with the domain rows of the retained
// pairs.  When a pair is reported by several jackhmmer iterations,
// only the rows of the last one are used.  Matches are ordered by
// query then target.
func Gather(hits []*DomainHit, si *StrainIndex, crit Criteria) ([]*Match, []*DomainHit, GatherStats) {

	var stats GatherStats
	stats.Rows = len(hits)

	pairs := make(map[pairKey][]*DomainHit)
	var order []pairKey
	for _, h := range hits {
		k := pairKey{h.Query, h.Target}
		doms, ok := pairs[k]
		if !ok {
			order = append(order, k)
		} else if h.Dom <= doms[len(doms)-1].Dom {
			// A new iteration reports this pair again.
			doms = doms[0:0]
		}
		pairs[k] = append(doms, h)
	}
	stats.Pairs = len(order)

	sort.Slice(order, func(i, j int) bool {
		if order[i].query != order[j].query {
			return order[i].query < order[j].query
		}
		return order[i].target < order[j].target
	})

	var matches []*Match
	var rows []*DomainHit
	for _, k := range order {
		doms := pairs[k]
		first := doms[0]

		strain, ok := si.Strain(k.target)
		if !ok {
			stats.NoStrain++
			continue
		}

		e := float64(first.E)
		if e > crit.E {
			stats.FailE++
			continue
		}

		dome := math.Inf(1)
		for _, d := range doms {
			dome = math.Min(dome, float64(d.IE))
		}
		if dome > crit.DomE {
			stats.FailDomE++
			continue
		}

		cov := coverage(doms, first.QLen)
		if cov < crit.Coverage {
			stats.FailCov++
			continue
		}

		ld := lengthDiff(first.QLen, first.TLen)
		if ld > crit.LenDiff {
			stats.FailLength++
			continue
		}

		matches = append(matches, &Match{
			Query:    k.query,
			Target:   k.target,
			Strain:   strain,
			E:        utils.Float(e),
			DomE:     utils.Float(dome),
			Coverage: utils.Float(cov),
			LenDiff:  utils.Float(ld),
		})
		rows = append(rows, doms...)
		stats.Kept++
	}

	return matches, rows, stats
}

// WriteMatches writes matches as a tab-delimited table.
func WriteMatches(name string, matches []*Match) error {
	return utils.WriteTSV(name, matches)
}

// ReadMatches reads a table written by WriteMatches.
func ReadMatches(name string) ([]*Match, error) {
	var matches []*Match
	if err := utils.ReadTSV(name, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// WriteDomainHits writes domain rows as a tab-delimited table.
func WriteDomainHits(name string, rows []*DomainHit) error {
	return utils.WriteTSV(name, rows)
}
