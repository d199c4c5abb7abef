// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// phenogene_hits reads the jackhmmer domain table and keeps the
// query/target pairs meeting the gather thresholds.  Two tables are
// written: the domain table rows of the retained pairs, and one row
// per retained pair giving its strain, E-values, coverage and length
// difference.

package main

import (
	"flag"
	"log"
	"os"

	"github.com/kshedden/phenogene/search"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
)

var (
	config *utils.Config

	logger *log.Logger

	strainsFile string
	rowsFile    string
	matchFile   string
)

func handleArgs() {

	sf := flag.String("strains", "", "Strains file written by phenogene_gather")
	domtbl := flag.String("domtbl", "", "Domain table, overrides DomtblFileName")
	rows := flag.String("rows", "", "Output file for the retained domain table rows")
	out := flag.String("out", "", "Output file for the matches")
	flag.Parse()

	if flag.NArg() != 1 {
		os.Stderr.WriteString("phenogene_hits: usage\n")
		os.Stderr.WriteString("  phenogene_hits [-strains file] [-domtbl file] [-rows file] [-out file] config\n\n")
		os.Exit(1)
	}

	var err error
	config, err = utils.ReadConfig(flag.Arg(0))
	if err != nil {
		utils.Fatal(nil, "handleArgs", err)
	}

	// Derived names are taken before -domtbl replaces DomtblFileName.
	rowsFile = config.GatherDomtblFileName()
	matchFile = config.MatchFileName()

	if *domtbl != "" {
		config.DomtblFileName = *domtbl
	}
	strainsFile = config.StrainsFileName
	if *sf != "" {
		strainsFile = *sf
	}
	if *rows != "" {
		rowsFile = *rows
	}
	if *out != "" {
		matchFile = *out
	}
}

func main() {

	handleArgs()
	logger = utils.SetupLog(config.LogDir, "phenogene_hits")

	set, err := strains.Load(strainsFile)
	if err != nil {
		utils.Fatal(logger, "main", err)
	}

	utils.Progress("Reading %s...", config.DomtblFileName)
	hits, err := search.ReadDomtbl(config.DomtblFileName)
	if err != nil {
		utils.Fatal(logger, "main", err)
	}

	si := search.NewStrainIndex(set.Names())
	matches, rows, stats := search.Gather(hits, si, search.NewCriteria(config.Thresholds))

	logger.Printf("%d domain table rows, %d query/target pairs", stats.Rows, stats.Pairs)
	logger.Printf("%d targets with unknown strain", stats.NoStrain)
	logger.Printf("Failed: E-value %d, domain E-value %d, coverage %d, length %d",
		stats.FailE, stats.FailDomE, stats.FailCov, stats.FailLength)
	utils.Progress("Kept %d of %d query/target pairs.", stats.Kept, stats.Pairs)

	if err := search.WriteDomainHits(rowsFile, rows); err != nil {
		utils.Fatal(logger, "main", err)
	}
	if err := search.WriteMatches(matchFile, matches); err != nil {
		utils.Fatal(logger, "main", err)
	}

	logger.Printf("Done")
}
