package utils

import (
	"io"
	"math"
	"path/filepath"
	"testing"
)

func TestCompressedRoundTrip(t *testing.T) {

	dir := t.TempDir()
	content := ">a desc\nMKV\n>b\nMKKL\n"

	for _, name := range []string{"x.txt", "x.txt.gz", "x.txt.sz"} {
		fn := filepath.Join(dir, name)
		w, err := Create(fn)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		r, err := Open(fn)
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != content {
			t.Errorf("%s: got %q", name, b)
		}
	}
}

type row struct {
	Gene string `csv:"gene"`
	P    Float  `csv:"p"`
}

func TestTSV(t *testing.T) {

	fn := filepath.Join(t.TempDir(), "rows.tsv")
	rows := []*row{{"g1", 1e-30}, {"g2", Float(math.NaN())}}
	if err := WriteTSV(fn, rows); err != nil {
		t.Fatal(err)
	}

	var back []*row
	if err := ReadTSV(fn, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[0].Gene != "g1" || back[0].P != 1e-30 {
		t.Errorf("unexpected rows %+v", back)
	}
	if !math.IsNaN(float64(back[1].P)) {
		t.Errorf("expected NaN, got %v", back[1].P)
	}
	if s := Float(1e-30).String(); s != "1e-30" {
		t.Errorf("Float formatting: %s", s)
	}
}
