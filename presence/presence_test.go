package presence

import (
	"bytes"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kshedden/phenogene/search"
)

func example() (*Matrix, int) {
	genes := []string{"g3", "g1", "g2"}
	strains := []string{"S2", "S1", "S3"}
	matches := []*search.Match{
		{Query: "g1", Strain: "S1"},
		{Query: "g1", Strain: "S1"},
		{Query: "g1", Strain: "S3"},
		{Query: "g2", Strain: "S1"},
		{Query: "g2", Strain: "S2"},
		{Query: "g2", Strain: "S3"},
		{Query: "g9", Strain: "S1"},
		{Query: "g3", Strain: "S9"},
	}
	return Build(genes, strains, matches)
}

func TestBuild(t *testing.T) {

	m, skipped := example()

	if skipped != 2 {
		t.Errorf("skipped %d, want 2", skipped)
	}
	if !reflect.DeepEqual(m.Genes(), []string{"g1", "g2", "g3"}) {
		t.Errorf("genes: %v", m.Genes())
	}
	if !reflect.DeepEqual(m.Strains(), []string{"S1", "S2", "S3"}) {
		t.Errorf("strains: %v", m.Strains())
	}

	row, err := m.Row("g1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(row, []float64{1, 0, 1}) {
		t.Errorf("g1 row: %v", row)
	}
	if _, err := m.Row("g9"); err == nil {
		t.Errorf("expected error for unknown gene")
	}

	if m.Count("g1") != 2 || m.Count("g2") != 3 || m.Count("g3") != 0 {
		t.Errorf("counts: %d %d %d", m.Count("g1"), m.Count("g2"), m.Count("g3"))
	}
	if m.Constant("g1") || !m.Constant("g2") || !m.Constant("g3") {
		t.Errorf("constant rows misidentified")
	}
	if !m.Present("g2", "S2") || m.Present("g1", "S2") {
		t.Errorf("Present is wrong")
	}
	if m.StrainCount("S1") != 2 || m.StrainCount("S2") != 1 {
		t.Errorf("strain counts: %d %d", m.StrainCount("S1"), m.StrainCount("S2"))
	}
}

func TestWriteRead(t *testing.T) {

	m, _ := example()

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatal(err)
	}
	want := "gene\tS1\tS2\tS3\ng1\t1\t0\t1\ng2\t1\t1\t1\ng3\t0\t0\t0\n"
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}

	back, err := Read(strings.NewReader(want))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Genes(), m.Genes()) || !reflect.DeepEqual(back.Strains(), m.Strains()) {
		t.Errorf("labels changed")
	}
	for _, g := range m.Genes() {
		for _, s := range m.Strains() {
			if back.Present(g, s) != m.Present(g, s) {
				t.Errorf("cell %s/%s changed", g, s)
			}
		}
	}

	fn := filepath.Join(t.TempDir(), "presence.tsv.sz")
	if err := m.WriteFile(fn); err != nil {
		t.Fatal(err)
	}
	back, err = ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if back.Count("g1") != 2 {
		t.Errorf("compressed round trip lost data")
	}
}

func TestReadErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"gene\tS1\ng1\t2\n",
		"gene\tS1\tS2\ng1\t1\n",
		"gene\tS1\ng1\t1\ng1\t0\n",
	} {
		if _, err := Read(strings.NewReader(s)); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestReadErrorLine(t *testing.T) {

	s := "gene\tS1\tS2\r\ng1\t1\t0\r\ng2\t0\tx\r\n"
	_, err := Read(strings.NewReader(s))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("got %v, want an error on line 3", err)
	}

	_, err = Read(strings.NewReader("gene\tS1\ng1\t1\ng2\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("got %v, want an error on line 3", err)
	}
}

func TestStats(t *testing.T) {

	matches := []*search.Match{
		{Query: "g1", Strain: "S1", E: 1e-20},
		{Query: "g1", Strain: "S1", E: 1e-30},
		{Query: "g1", Strain: "S3", E: 1e-25},
		{Query: "g2", Strain: "S2", E: 1e-50},
		{Query: "g9", Strain: "S1", E: 1e-90},
		{Query: "g2", Strain: "S9", E: 1e-90},
	}
	m, _ := Build([]string{"g1", "g2", "g3"}, []string{"S1", "S2", "S3"}, matches)

	gs := GeneStats(m, matches)
	if len(gs) != 3 {
		t.Fatalf("got %d gene stats", len(gs))
	}
	g1 := gs[0]
	if g1.Gene != "g1" || g1.Strains != 2 || g1.Matches != 3 || g1.MaxCopies != 2 || g1.BestE != 1e-30 {
		t.Errorf("g1: %+v", g1)
	}
	g2 := gs[1]
	if g2.Strains != 1 || g2.Matches != 1 || g2.MaxCopies != 1 || g2.BestE != 1e-50 {
		t.Errorf("g2: %+v", g2)
	}
	if g3 := gs[2]; g3.Matches != 0 || !math.IsNaN(float64(g3.BestE)) {
		t.Errorf("g3: %+v", g3)
	}

	ss := StrainStats(m, matches)
	want := []StrainStat{{"S1", 1, 2}, {"S2", 1, 1}, {"S3", 1, 1}}
	for j, w := range want {
		if *ss[j] != w {
			t.Errorf("strain %d: got %+v, want %+v", j, *ss[j], w)
		}
	}
}
