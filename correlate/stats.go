// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package correlate

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrTooFew is returned when fewer than three observations are
	// available.
	ErrTooFew = errors.New("correlate: fewer than 3 observations")

	// ErrConstant is returned when a variable does not vary.
	ErrConstant = errors.New("correlate: constant input")
)

// Pearson returns the Pearson correlation of x and y, and the
// two-sided p-value of the t-test of zero correlation with n-2
// degrees of freedom.  When one of the variables is binary this is
// the point-biserial correlation.
func Pearson(x, y []float64) (r, p float64, err error) {

	if len(x) != len(y) {
		panic("correlate: slice length mismatch")
	}
	n := len(x)
	if n < 3 {
		return 0, 0, ErrTooFew
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0, 0, ErrConstant
	}

	r = stat.Correlation(x, y, nil)
	r = math.Max(-1, math.Min(1, r))
	if math.Abs(r) == 1 {
		return r, 0, nil
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.Survival(math.Abs(t))

	return r, math.Min(p, 1), nil
}

// FisherExact returns the two-sided p-value of Fisher's exact test for
// the 2x2 table
//
//	a b
//	c d
//
// Tables at least as extreme as the observed one are those whose
// probability is no larger, allowing a relative error of 1e-7.
func FisherExact(a, b, c, d int) float64 {

	r1, r2, c1 := a+b, c+d, a+c
	n := r1 + r2
	if n == 0 {
		return 1
	}

	lnorm := combin.LogGeneralizedBinomial(float64(n), float64(c1))
	logp := func(k int) float64 {
		return combin.LogGeneralizedBinomial(float64(r1), float64(k)) +
			combin.LogGeneralizedBinomial(float64(r2), float64(c1-k)) - lnorm
	}

	lo, hi := c1-r2, c1
	if lo < 0 {
		lo = 0
	}
	if hi > r1 {
		hi = r1
	}

	obs := logp(a)
	var p float64
	for k := lo; k <= hi; k++ {
		if lk := logp(k); lk <= obs+1e-7 {
			p += math.Exp(lk)
		}
	}

	return math.Min(p, 1)
}

// BenjaminiHochberg returns the false discovery rate adjusted
// p-values (q-values), in the order of p.
func BenjaminiHochberg(p []float64) []float64 {

	n := len(p)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return p[idx[i]] < p[idx[j]] })

	q := make([]float64, n)
	m := 1.0
	for rank := n - 1; rank >= 0; rank-- {
		i := idx[rank]
		m = math.Min(m, p[i]*float64(n)/float64(rank+1))
		q[i] = m
	}

	return q
}
