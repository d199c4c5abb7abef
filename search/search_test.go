package search

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kshedden/phenogene/utils"
)

const domtbl = `#                                                                            --- full sequence --- -------------- this domain -------------   hmm coord   ali coord   env coord
# target name        accession   tlen query name           accession   qlen   E-value  score  bias   #  of  c-Evalue  i-Evalue  score  bias  from    to  from    to  from    to  acc description of target
#------------------- ---------- ----- -------------------- ---------- ----- --------- ------ ----- --- --- --------- --------- ------ ----- ----- ----- ----- ----- ----- ----- ---- ---------------------
ATMOS43_g1           -            100 g1                   -            100   1e-60  250.0   0.1   1   1   1e-62     1e-62  249.0   0.1     1   100     1   100     1   100 0.99 self hit
MBT12_x7             -             95 g1                   -            100   1e-40  150.0   0.1   1   2   1e-30     1e-30  100.0   0.1     1    50     1    50     1    52 0.95 two domain hit
MBT12_x7             -             95 g1                   -            100   1e-40  150.0   0.1   2   2   1e-25     1e-25   50.0   0.1    40    90    45    95    40    95 0.95 two domain hit
MBT1_2_x9            -            100 g1                   -            100   1e-40  150.0   0.1   1   1   1e-30     1e-30  100.0   0.1     1    50     1    50     1    52 0.95 half coverage
MBT13_y1             -            200 g1                   -            100   1e-40  150.0   0.1   1   1   1e-30     1e-30  100.0   0.1     1   100     1   100     1   100 0.95 too long
MBT13_y2             -            100 g2                   -            100   1e-5    20.0   0.1   1   1   1e-5      1e-5    20.0   0.1     1   100     1   100     1   100 0.95 weak
OTHER_z1             -            100 g2                   -            100   1e-40  150.0   0.1   1   1   1e-30     1e-30  100.0   0.1     1   100     1   100     1   100 0.95 unknown strain
MBT13_y3             -            100 g2                   -            100   1e-40  150.0   0.1   1   1   1e-15     1e-15  100.0   0.1     1   100     1   100     1   100 0.95 weak domain
MBT12_x8             -            100 g2                   -            100   1e-40  150.0   0.1   1   1   1e-30     1e-30  100.0   0.1     1    60     1    60     1    60 0.95 iteration 1
MBT12_x8             -            100 g2                   -            100   1e-45  170.0   0.1   1   1   1e-35     1e-35  120.0   0.1     1    90     1    90     1    90 0.95 iteration 2
`

func TestParseDomtbl(t *testing.T) {

	hits, err := ParseDomtbl(strings.NewReader(domtbl))
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 10 {
		t.Fatalf("expected 10 rows, found %d", len(hits))
	}

	h := hits[2]
	if h.Target != "MBT12_x7" || h.Query != "g1" || h.TLen != 95 || h.QLen != 100 {
		t.Errorf("bad identifiers/lengths: %+v", h)
	}
	if h.Dom != 2 || h.NDom != 2 || h.IE != 1e-25 || h.HMMFrom != 40 || h.HMMTo != 90 {
		t.Errorf("bad domain fields: %+v", h)
	}
	if h.Desc != "two domain hit" {
		t.Errorf("description: %q", h.Desc)
	}

	if _, err := ParseDomtbl(strings.NewReader("a - 1 b - 2 x\n")); err == nil {
		t.Errorf("expected error for short row")
	}
}

func TestStrainIndex(t *testing.T) {

	si := NewStrainIndex([]string{"MBT1", "MBT1_2", "ATMOS43"})
	for target, want := range map[string]string{
		"MBT1_2_x9":  "MBT1_2",
		"MBT1_x9":    "MBT1",
		"ATMOS43_g1": "ATMOS43",
	} {
		got, ok := si.Strain(target)
		if !ok || got != want {
			t.Errorf("%s: got %q, want %q", target, got, want)
		}
	}
	if _, ok := si.Strain("MBT12_x1"); ok {
		t.Errorf("MBT12_x1 should have no strain")
	}
}

func TestCoverage(t *testing.T) {

	doms := []*DomainHit{
		{HMMFrom: 1, HMMTo: 50},
		{HMMFrom: 40, HMMTo: 90},
		{HMMFrom: 60, HMMTo: 70},
	}
	if c := coverage(doms, 100); math.Abs(c-0.9) > 1e-12 {
		t.Errorf("coverage %v, want 0.9", c)
	}
	if c := coverage(doms[:1], 0); c != 0 {
		t.Errorf("coverage with qlen 0: %v", c)
	}
	if d := lengthDiff(100, 80); math.Abs(d-0.25) > 1e-12 {
		t.Errorf("length diff %v", d)
	}
}

func TestGather(t *testing.T) {

	hits, err := ParseDomtbl(strings.NewReader(domtbl))
	if err != nil {
		t.Fatal(err)
	}

	si := NewStrainIndex([]string{"ATMOS43", "MBT12", "MBT13", "MBT1_2"})
	crit := Criteria{E: 1e-10, DomE: 1e-20, Coverage: 0.7, LenDiff: 0.2}

	matches, rows, stats := Gather(hits, si, crit)

	var got [][2]string
	for _, m := range matches {
		got = append(got, [2]string{m.Query, m.Strain})
	}
	want := [][2]string{{"g1", "ATMOS43"}, {"g1", "MBT12"}, {"g2", "MBT12"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("matches %v, want %v", got, want)
	}

	// The second iteration replaces the first for MBT12_x8.
	last := matches[2]
	if last.Target != "MBT12_x8" || float64(last.E) != 1e-45 || math.Abs(float64(last.Coverage)-0.9) > 1e-12 {
		t.Errorf("unexpected last match %+v", last)
	}
	if len(rows) != 4 {
		t.Errorf("expected 4 retained domain rows, got %d", len(rows))
	}

	wstats := GatherStats{Rows: 10, Pairs: 8, Kept: 3, NoStrain: 1, FailE: 1, FailDomE: 1, FailCov: 1, FailLength: 1}
	if stats != wstats {
		t.Errorf("stats %+v, want %+v", stats, wstats)
	}

	fn := filepath.Join(t.TempDir(), "matches.tsv")
	if err := WriteMatches(fn, matches); err != nil {
		t.Fatal(err)
	}
	back, err := ReadMatches(fn)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, matches) {
		t.Errorf("matches changed on reading back")
	}
	if err := WriteDomainHits(filepath.Join(t.TempDir(), "rows.tsv"), rows); err != nil {
		t.Fatal(err)
	}
}

func TestArgs(t *testing.T) {

	config := &utils.Config{DatabaseFileName: "db.fasta", DomtblFileName: "out.txt", NumCPU: 4}
	config.SetDefaults()

	got := strings.Join(NewJackhmmer(config).Args(), " ")
	want := "-E 1e-05 --incE 1e-10 --domE 1e-05 --incdomE 1e-10 --cpu 4 --domtblout out.txt - db.fasta"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

// fakeJackhmmer writes a script that copies its stdin to the
// --domtblout file.
func fakeJackhmmer(t *testing.T, body string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "jackhmmer")
	if err := os.WriteFile(fn, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return fn
}

func TestRunFile(t *testing.T) {

	dir := t.TempDir()
	query := filepath.Join(dir, "ref.faa.gz")
	w, err := utils.Create(query)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(">g1\nMKV\n>g2\nMKL\n"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "domtbl.txt")
	j := &Jackhmmer{
		Path:     fakeJackhmmer(t, "while [ $# -gt 0 ]; do\n  if [ \"$1\" = --domtblout ]; then out=$2; fi\n  shift\ndone\ncat > \"$out\"\necho ignored\n"),
		NumCPU:   1,
		Domtbl:   out,
		Database: "db.fasta",
	}

	if err := j.RunFile(context.Background(), query, 8, nil); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != ">g2\nMKL\n" {
		t.Errorf("jackhmmer received %q", b)
	}

	j.Path = fakeJackhmmer(t, "cat > /dev/null\necho 'Fatal exception' >&2\nexit 3\n")
	err = j.RunFile(context.Background(), query, 0, nil)
	if err == nil || !strings.Contains(err.Error(), "Fatal exception") {
		t.Errorf("expected error with stderr, got %v", err)
	}
}
