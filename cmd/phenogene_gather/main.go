// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// phenogene_gather reads the phenotype table, finds the proteome file
// of every listed strain, links the proteomes into LinkDir and writes
// the combined protein database searched by jackhmmer.  The strains
// and their proteome files are recorded in StrainsFileName for the
// later stages.
//
// Usage:
//
// phenogene_gather [-db database.fasta] [-strains strains.json] config.yaml

package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/kshedden/phenogene/proteome"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
)

var (
	config *utils.Config

	logger *log.Logger
)

func handleArgs() {

	db := flag.String("db", "", "Output database file, overrides DatabaseFileName")
	sf := flag.String("strains", "", "Output strains file, overrides StrainsFileName")
	flag.Parse()

	if flag.NArg() != 1 {
		os.Stderr.WriteString("phenogene_gather: usage\n")
		os.Stderr.WriteString("  phenogene_gather [-db file] [-strains file] config\n\n")
		os.Exit(1)
	}

	var err error
	config, err = utils.ReadConfig(flag.Arg(0))
	if err != nil {
		utils.Fatal(nil, "handleArgs", err)
	}
	if *db != "" {
		config.DatabaseFileName = *db
	}
	if *sf != "" {
		config.StrainsFileName = *sf
	}

	if err := config.Validate(); err != nil {
		utils.Fatal(nil, "handleArgs", err)
	}
}

func gatherStrains() *strains.Set {

	tab, err := strains.ReadPhenotypeFile(config.PhenotypeFileName)
	if err != nil {
		utils.Fatal(logger, "gatherStrains", err)
	}

	utils.Progress("Total strains in %s: %d", config.PhenotypeFileName, len(tab.Strains()))
	utils.Progress("Phenotypes found: %v", tab.Phenotypes())
	for _, ph := range tab.Phenotypes() {
		utils.Progress("  %s: %d strains", ph, len(tab.Positive(ph)))
	}

	set, err := strains.Build(tab, config.ProteomeDir, config.ProteomePattern,
		config.ReferenceStrain, config.PositiveOnly)
	if err != nil {
		utils.Fatal(logger, "gatherStrains", err)
	}

	for _, st := range set.Missing {
		utils.Progress("Proteome of strain %s not found.", st)
		logger.Printf("Proteome of strain %s not found", st)
	}
	logger.Printf("Found proteomes for %d strains", len(set.Proteomes))
	for _, ph := range tab.Phenotypes() {
		utils.Progress("  %s: %d positive strains with a proteome", ph, set.NumPositive(ph))
		logger.Printf("%s: %d positive strains with a proteome", ph, set.NumPositive(ph))
	}

	if err := strains.LinkFarm(config.LinkDir, set.Proteomes); err != nil {
		utils.Fatal(logger, "gatherStrains", err)
	}

	return set
}

func makeDatabase(set *strains.Set) {

	utils.Progress("Making database fasta...")

	if err := os.MkdirAll(filepath.Dir(config.DatabaseFileName), os.ModePerm); err != nil {
		utils.Fatal(logger, "makeDatabase", err)
	}

	w, err := utils.Create(config.DatabaseFileName)
	if err != nil {
		utils.Fatal(logger, "makeDatabase", err)
	}

	counts, err := proteome.BuildDatabase(w, set.Proteomes, config.Thresholds.MinProteinLen, logger)
	if err != nil {
		w.Close()
		utils.Fatal(logger, "makeDatabase", err)
	}
	if err := w.Close(); err != nil {
		utils.Fatal(logger, "makeDatabase", err)
	}

	var n int
	for _, c := range counts {
		n += c.Kept
	}
	utils.Progress("Database fasta file %s (%d proteins).", config.DatabaseFileName, n)
}

func main() {

	handleArgs()
	logger = utils.SetupLog(config.LogDir, "phenogene_gather")

	logger.Printf("Starting gatherStrains...")
	set := gatherStrains()

	logger.Printf("Starting makeDatabase...")
	makeDatabase(set)

	if err := set.Save(config.StrainsFileName); err != nil {
		utils.Fatal(logger, "main", err)
	}
	logger.Printf("Done")
}
