// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package utils

import (
	"math"
	"strconv"
	"strings"
)

// Float is a float64 that is written to tables in the shortest
// exact form, using exponents for very small or large values.
type Float float64

func (f Float) MarshalCSV() (string, error) {
	x := float64(f)
	if math.IsNaN(x) {
		return "nan", nil
	}
	return strconv.FormatFloat(x, 'g', -1, 64), nil
}

func (f *Float) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na":
		*f = Float(math.NaN())
		return nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Float(x)
	return nil
}

// String returns the value as written in tables.
func (f Float) String() string {
	s, _ := f.MarshalCSV()
	return s
}
