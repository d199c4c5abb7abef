// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// phenogene_correlate tests every gene of the presence table for
// association with the phenotypes.  Each configured analysis writes
// one results table; if no analyses are configured, every phenotype
// column is analyzed on its own.
//
// With -analysis i only the i'th analysis is run, and -out may then
// override its output file.

package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/kshedden/phenogene/correlate"
	"github.com/kshedden/phenogene/presence"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
	"github.com/pkg/profile"
)

var (
	config *utils.Config

	logger *log.Logger

	presenceFile string
	analysis     int
	outFile      string
)

func handleArgs() {

	pf := flag.String("presence", "", "Presence table written by phenogene_presence")
	an := flag.Int("analysis", -1, "Run only this analysis (0-based)")
	out := flag.String("out", "", "Output file, used with -analysis")
	flag.Parse()

	if flag.NArg() != 1 {
		os.Stderr.WriteString("phenogene_correlate: usage\n")
		os.Stderr.WriteString("  phenogene_correlate [-presence file] [-analysis i [-out file]] config\n\n")
		os.Exit(1)
	}

	var err error
	config, err = utils.ReadConfig(flag.Arg(0))
	if err != nil {
		utils.Fatal(nil, "handleArgs", err)
	}

	presenceFile = config.PresenceFileName()
	if *pf != "" {
		presenceFile = *pf
	}
	analysis = *an
	outFile = *out
	if outFile != "" && analysis < 0 {
		os.Stderr.WriteString("phenogene_correlate: -out requires -analysis\n")
		os.Exit(1)
	}
}

func analyses(tab *strains.Table) []utils.Analysis {

	al := config.Analyses
	if len(al) == 0 {
		al = correlate.DefaultAnalyses(tab)
	}

	if analysis >= 0 {
		if analysis >= len(al) {
			os.Stderr.WriteString("phenogene_correlate: -analysis out of range\n")
			os.Exit(1)
		}
		al = al[analysis : analysis+1]
	}

	return al
}

func main() {

	handleArgs()
	logger = utils.SetupLog(config.LogDir, "phenogene_correlate")

	if config.CPUProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(config.LogDir), profile.Quiet).Stop()
	}

	tab, err := strains.ReadPhenotypeFile(config.PhenotypeFileName)
	if err != nil {
		utils.Fatal(logger, "main", err)
	}

	m, err := presence.ReadFile(presenceFile)
	if err != nil {
		utils.Fatal(logger, "main", err)
	}
	logger.Printf("Read presence table: %d genes, %d strains", len(m.Genes()), len(m.Strains()))

	for _, a := range analyses(tab) {

		rpt, err := correlate.Run(a, m, tab)
		if err != nil {
			utils.Fatal(logger, "main", err)
		}

		name := outFile
		if name == "" {
			name = config.AnalysisFileName(a)
		}
		if err := os.MkdirAll(filepath.Dir(name), os.ModePerm); err != nil {
			utils.Fatal(logger, "main", err)
		}
		if err := rpt.Write(name); err != nil {
			utils.Fatal(logger, "main", err)
		}

		logger.Printf("%s: %s, %d strains, %d genes tested, %d skipped", a.Name, rpt.Method,
			len(rpt.Strains), len(rpt.Results), rpt.Skipped)
		utils.Progress("%s: %d genes tested, results in %s", a.Name, len(rpt.Results), name)
		if len(rpt.Results) > 0 {
			r := rpt.Results[0]
			utils.Progress("  top gene %s, r=%.3f, p=%.3g", r.Gene, r.R, r.P)
		}
	}

	logger.Printf("Done")
}
