// Copyright 2017, Kerby Shedden and the Phenogene contributors.

/*
Generate simple data sets for testing.

Every strain has a random binary phenotype "Trait" and a continuous
phenotype "Growth".  The reference strain REF has NumGene proteins.
Each of the first NumSignal genes is present in a strain if and only
if the strain is positive for Trait, the remaining genes are present
at random with probability 1/2.

Besides the proteomes and the phenotype table, a jackhmmer domain
table with one full length hit for every gene present in a strain is
written, so that the pipeline can be run past the search step
without jackhmmer.  The configuration file names all of these.
*/

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/kshedden/phenogene/utils"
	"gopkg.in/yaml.v3"
)

var (
	numStrain int
	numGene   int
	numSignal int
	protLen   int
	dir       string
	seed      int64

	strainNames []string
	trait       []bool
	present     [][]bool
)

const aminoAcids = "ACDEFGHIKLMNPQRSTVWY"

func genRand(n int, seq []byte) []byte {

	if cap(seq) < n {
		seq = make([]byte, n)
	}
	seq = seq[0:n]

	seq[0] = 'M'
	for j := 1; j < n; j++ {
		seq[j] = aminoAcids[rand.Intn(len(aminoAcids))]
	}

	return seq
}

func geneName(i int) string {
	return fmt.Sprintf("g%05d", i)
}

func generatePresence() {

	strainNames = append(strainNames, "REF")
	for k := 1; k < numStrain; k++ {
		strainNames = append(strainNames, fmt.Sprintf("STR%03d", k))
	}

	trait = make([]bool, numStrain)
	present = make([][]bool, numStrain)
	for k := range strainNames {
		trait[k] = k == 0 || rand.Float64() < 0.5
		present[k] = make([]bool, numGene)
		for i := 0; i < numGene; i++ {
			switch {
			case k == 0:
				present[k][i] = true
			case i < numSignal:
				present[k][i] = trait[k]
			default:
				present[k][i] = rand.Float64() < 0.5
			}
		}
	}
}

func generateProteomes() {

	pdir := filepath.Join(dir, "proteomes")
	if err := os.MkdirAll(pdir, os.ModePerm); err != nil {
		panic(err)
	}

	fmt.Printf("Writing %d proteomes\n", numStrain)

	var seq []byte
	for k, st := range strainNames {

		w, err := utils.Create(filepath.Join(pdir, st+".faa.gz"))
		if err != nil {
			panic(err)
		}
		wtr := fasta.NewWriter(w, 60)

		for i := 0; i < numGene; i++ {
			if !present[k][i] {
				continue
			}
			seq = genRand(protLen, seq)
			s := linear.NewSeq(geneName(i), alphabet.BytesToLetters(seq), alphabet.Protein)
			s.Desc = "synthetic protein"
			if _, err := wtr.Write(s); err != nil {
				panic(err)
			}
		}

		if err := w.Close(); err != nil {
			panic(err)
		}
	}
}

func generatePhenotypes() {

	fid, err := os.Create(filepath.Join(dir, "phenotypes.tsv"))
	if err != nil {
		panic(err)
	}
	defer fid.Close()
	w := bufio.NewWriter(fid)
	defer w.Flush()

	io.WriteString(w, "Strain\tTrait\tGrowth\n")
	for k, st := range strainNames {
		var x int
		if trait[k] {
			x = 1
		}
		g := rand.NormFloat64() + 2*float64(x)
		io.WriteString(w, fmt.Sprintf("%s\t%d\t%.4f\n", st, x, g))
	}
}

func generateDomtbl() {

	fid, err := os.Create(filepath.Join(dir, "domtblout.txt"))
	if err != nil {
		panic(err)
	}
	defer fid.Close()
	w := bufio.NewWriter(fid)
	defer w.Flush()

	io.WriteString(w, "# synthetic jackhmmer domain table\n")
	for i := 0; i < numGene; i++ {
		for k, st := range strainNames {
			if !present[k][i] {
				continue
			}
			g := geneName(i)
			line := fmt.Sprintf("%s_%s - %d %s - %d 1e-80 300.0 0.1 1 1 1e-82 1e-82 299.0 0.1 1 %d 1 %d 1 %d 0.99 synthetic protein\n",
				st, g, protLen, g, protLen, protLen, protLen, protLen)
			io.WriteString(w, line)
		}
	}
}

func generateConfig() {

	config := utils.Config{
		PhenotypeFileName: filepath.Join(dir, "phenotypes.tsv"),
		ProteomeDir:       filepath.Join(dir, "proteomes"),
		ProteomePattern:   "*.faa.gz",
		LinkDir:           filepath.Join(dir, "all_proteomes"),
		DatabaseFileName:  filepath.Join(dir, "all_proteomes_db", "all_proteomes.fasta"),
		StrainsFileName:   filepath.Join(dir, "strains.json"),
		DomtblFileName:    filepath.Join(dir, "domtblout.txt"),
		ReferenceStrain:   "REF",
		NumCPU:            4,
		OutDir:            filepath.Join(dir, "results"),
		LogDir:            filepath.Join(dir, "phenogene_logs"),
		Thresholds:        utils.DefaultThresholds(),
		Analyses: []utils.Analysis{
			{Name: "Trait", Method: "pointbiserial", Phenotypes: []string{"Trait"}},
			{Name: "Growth", Method: "auto", Column: "Growth"},
		},
	}
	config.Thresholds.MinProteinLen = protLen / 2

	b, err := yaml.Marshal(&config)
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), b, 0644); err != nil {
		panic(err)
	}
}

func main() {

	flag.IntVar(&numStrain, "NumStrain", 40, "Number of strains, including the reference")
	flag.IntVar(&numGene, "NumGene", 1000, "Number of reference genes")
	flag.IntVar(&numSignal, "NumSignal", 10, "Number of genes associated with the trait")
	flag.IntVar(&protLen, "ProtLen", 200, "Protein length")
	flag.StringVar(&dir, "Dir", ".", "Directory")
	flag.Int64Var(&seed, "Seed", 1, "Random seed")

	flag.Parse()

	if numStrain < 4 {
		panic("NumStrain must be at least 4")
	}
	if numSignal > numGene {
		panic("NumSignal must not exceed NumGene")
	}
	if protLen < 2 {
		panic("ProtLen must be at least 2")
	}

	rand.Seed(seed)

	generatePresence()
	generateProteomes()
	generatePhenotypes()
	generateDomtbl()
	generateConfig()
}
