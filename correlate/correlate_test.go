package correlate

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/kshedden/phenogene/presence"
	"github.com/kshedden/phenogene/search"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
)

type refCase struct {
	Name    string
	X, Y    []float64
	R, P    float64
	FisherP *float64
}

func readCases(t *testing.T) []refCase {
	t.Helper()
	var v struct {
		Case []refCase
	}
	if _, err := toml.DecodeFile(filepath.Join("testdata", "cases.toml"), &v); err != nil {
		t.Fatal(err)
	}
	if len(v.Case) == 0 {
		t.Fatal("no test cases found")
	}
	return v.Case
}

// near reports whether x and y agree to about nine significant
// digits.
func near(x, y float64) bool {
	return math.Abs(x-y) <= 1e-9*math.Max(1e-12, math.Abs(y)) || math.Abs(x-y) <= 1e-15
}

func TestPearsonReference(t *testing.T) {

	for _, c := range readCases(t) {
		r, p, err := Pearson(c.X, c.Y)
		if err != nil {
			t.Errorf("%s: %v", c.Name, err)
			continue
		}
		if !near(r, c.R) {
			t.Errorf("%s: r=%v, want %v", c.Name, r, c.R)
		}
		if !near(p, c.P) {
			t.Errorf("%s: p=%v, want %v", c.Name, p, c.P)
		}
		if c.FisherP != nil {
			if fp := fisher(c.X, c.Y); !near(fp, *c.FisherP) {
				t.Errorf("%s: fisher p=%v, want %v", c.Name, fp, *c.FisherP)
			}
		}
	}
}

func TestPearsonErrors(t *testing.T) {

	if _, _, err := Pearson([]float64{0, 1}, []float64{1, 0}); !errors.Is(err, ErrTooFew) {
		t.Errorf("expected ErrTooFew, got %v", err)
	}
	if _, _, err := Pearson([]float64{1, 1, 1}, []float64{1, 0, 1}); !errors.Is(err, ErrConstant) {
		t.Errorf("expected ErrConstant, got %v", err)
	}
}

func TestFisherExact(t *testing.T) {

	for _, c := range []struct {
		a, b, c, d int
		p          float64
	}{
		{8, 2, 1, 5, 0.03496503496503497},
		{3, 1, 1, 3, 0.4857142857142857},
		{10, 0, 0, 10, 1.082508822446903e-05},
		{0, 0, 0, 0, 1},
	} {
		if p := FisherExact(c.a, c.b, c.c, c.d); !near(p, c.p) {
			t.Errorf("%v: got %v", c, p)
		}
	}
}

func TestBenjaminiHochberg(t *testing.T) {

	q := BenjaminiHochberg([]float64{0.01, 0.04, 0.03, 0.2, 0.005})
	want := []float64{0.025, 0.05, 0.05, 0.2, 0.025}
	for i := range q {
		if !near(q[i], want[i]) {
			t.Errorf("q[%d]=%v, want %v", i, q[i], want[i])
		}
	}
}

const phenotypes = "ID\tDouble conj.\tSingle conj.\tRate\n" +
	"S1\t1\t0\t2.5\n" +
	"S2\t0\t1\t1.2\n" +
	"S3\t0\t0\t0.1\n" +
	"S4\t1\t0\t3.1\n" +
	"S5\t0\t1\tNA\n" +
	"S6\t0\t0\t0.0\n"

func readTable(t *testing.T) *strains.Table {
	t.Helper()
	tab, err := strains.ReadPhenotypes(strings.NewReader(phenotypes))
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestVector(t *testing.T) {

	tab := readTable(t)
	columns := []string{"REF", "S1", "S2", "S3", "S4", "S5", "S6"}

	ph, err := Vector(utils.Analysis{Name: "conj", Method: PointBiserial,
		Phenotypes: []string{"Double conj.", "Single conj."}}, tab, columns)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ph.Columns, []int{1, 2, 3, 4, 5, 6}) {
		t.Errorf("columns: %v", ph.Columns)
	}
	if !reflect.DeepEqual(ph.Values, []float64{1, 1, 0, 1, 1, 0}) || !ph.Binary() {
		t.Errorf("conj values: %v", ph.Values)
	}

	ph, err = Vector(utils.Analysis{Name: "step", Method: PearsonMethod,
		Scores: map[string]float64{"Double conj.": 2, "Single conj.": 1}}, tab, columns)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ph.Values, []float64{2, 1, 0, 2, 1, 0}) || ph.Binary() {
		t.Errorf("stepped values: %v", ph.Values)
	}

	ph, err = Vector(utils.Analysis{Name: "rate", Method: Auto, Column: "Rate"}, tab, columns)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ph.Strains, []string{"S1", "S2", "S3", "S4", "S6"}) {
		t.Errorf("rate strains: %v", ph.Strains)
	}
	if ph.Method != PearsonMethod {
		t.Errorf("Rate should be continuous")
	}

	ph, err = Vector(utils.Analysis{Name: "double", Method: Auto, Column: "Double conj."}, tab, columns)
	if err != nil {
		t.Fatal(err)
	}
	if ph.Method != PointBiserial {
		t.Errorf("Double conj. should be binary")
	}

	if _, err := Vector(utils.Analysis{Name: "x", Method: PointBiserial,
		Phenotypes: []string{"Triple conj."}}, tab, columns); err == nil {
		t.Errorf("expected error for unknown phenotype")
	}
}

func matrix() *presence.Matrix {
	genes := []string{"gA", "gB", "gC", "gD"}
	cols := []string{"REF", "S1", "S2", "S3", "S4", "S5", "S6"}
	var matches []*search.Match
	add := func(g string, ss ...string) {
		for _, s := range ss {
			matches = append(matches, &search.Match{Query: g, Strain: s})
		}
	}
	add("gA", "REF", "S1", "S4")       // double conjugators only
	add("gB", "REF", "S1", "S2", "S3") // mixed
	add("gC", cols...)                 // everywhere
	add("gD", "REF")                   // reference only
	m, _ := presence.Build(genes, cols, matches)
	return m
}

func TestRun(t *testing.T) {

	tab := readTable(t)
	m := matrix()

	rpt, err := Run(utils.Analysis{Name: "double", Method: PointBiserial,
		Phenotypes: []string{"Double conj."}}, m, tab)
	if err != nil {
		t.Fatal(err)
	}

	if rpt.Method != PointBiserial || rpt.Skipped != 2 || len(rpt.Results) != 2 {
		t.Fatalf("unexpected report %+v", rpt)
	}

	first := rpt.Results[0]
	if first.Gene != "gA" || !near(first.R, 1) || first.P > 1e-12 {
		t.Errorf("gA should be perfectly associated: %+v", first)
	}
	if first.NPresent != 2 || first.N != 6 {
		t.Errorf("gA counts: %+v", first)
	}
	if math.IsNaN(first.FisherP) {
		t.Errorf("binary phenotype should have a Fisher p-value")
	}
	if rpt.Results[1].Gene != "gB" || rpt.Results[1].Q < rpt.Results[1].P {
		t.Errorf("unexpected second result %+v", rpt.Results[1])
	}

	rpt, err = Run(utils.Analysis{Name: "rate", Method: Auto, Column: "Rate"}, m, tab)
	if err != nil {
		t.Fatal(err)
	}
	if rpt.Method != PearsonMethod || !math.IsNaN(rpt.Results[0].FisherP) {
		t.Errorf("continuous analysis: %+v", rpt)
	}

	fn := filepath.Join(t.TempDir(), "corr.tsv")
	if err := rpt.Write(fn); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(b), "\n", 2)[0]
	if header != "gene\tpearson_Corr.\tp\tq\tfisher_p\tn_present\tn" {
		t.Errorf("header: %q", header)
	}
}

func TestRunConstantPhenotype(t *testing.T) {

	tab, err := strains.ReadPhenotypes(strings.NewReader("ID\tA\nS1\t1\nS2\t1\nS3\t1\n"))
	if err != nil {
		t.Fatal(err)
	}
	m := presence.New([]string{"g"}, []string{"S1", "S2", "S3"})
	m.Set("g", "S1")

	if _, err := Run(utils.Analysis{Name: "A", Method: Auto, Column: "A"}, m, tab); err == nil {
		t.Errorf("expected error for constant phenotype")
	}
}

func TestDefaultAnalyses(t *testing.T) {

	an := DefaultAnalyses(readTable(t))
	if len(an) != 3 || an[2].Column != "Rate" || an[2].Method != Auto {
		t.Errorf("default analyses: %+v", an)
	}
}
