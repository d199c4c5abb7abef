// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// phenogene_presence builds the gene by strain presence table from
// the retained matches.  The genes are all proteins of the reference
// proteome, the strains are those recorded by phenogene_gather.  An
// existing presence table is reused unless -force is given.

package main

import (
	"flag"
	"log"
	"os"

	"github.com/kshedden/phenogene/presence"
	"github.com/kshedden/phenogene/proteome"
	"github.com/kshedden/phenogene/search"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
	"github.com/pkg/profile"
)

var (
	config *utils.Config

	logger *log.Logger

	strainsFile  string
	matchFile    string
	presenceFile string
	force        bool
)

func handleArgs() {

	sf := flag.String("strains", "", "Strains file written by phenogene_gather")
	mf := flag.String("matches", "", "Match table written by phenogene_hits")
	out := flag.String("out", "", "Output presence table")
	fo := flag.Bool("force", false, "Rebuild the presence table if it exists")
	flag.Parse()

	if flag.NArg() != 1 {
		os.Stderr.WriteString("phenogene_presence: usage\n")
		os.Stderr.WriteString("  phenogene_presence [-strains file] [-matches file] [-out file] [-force] config\n\n")
		os.Exit(1)
	}

	var err error
	config, err = utils.ReadConfig(flag.Arg(0))
	if err != nil {
		utils.Fatal(nil, "handleArgs", err)
	}

	strainsFile = config.StrainsFileName
	if *sf != "" {
		strainsFile = *sf
	}
	matchFile = config.MatchFileName()
	if *mf != "" {
		matchFile = *mf
	}
	presenceFile = config.PresenceFileName()
	if *out != "" {
		presenceFile = *out
	}
	force = *fo
}

func build() *presence.Matrix {

	set, err := strains.Load(strainsFile)
	if err != nil {
		utils.Fatal(logger, "build", err)
	}

	genes, err := proteome.IDs(set.ReferenceProteome())
	if err != nil {
		utils.Fatal(logger, "build", err)
	}
	logger.Printf("%d reference proteins", len(genes))

	matches, err := search.ReadMatches(matchFile)
	if err != nil {
		utils.Fatal(logger, "build", err)
	}

	m, skipped := presence.Build(genes, set.Names(), matches)
	if skipped > 0 {
		logger.Printf("%d matches outside the gene/strain index were ignored", skipped)
	}

	return m
}

func main() {

	handleArgs()
	logger = utils.SetupLog(config.LogDir, "phenogene_presence")

	if config.CPUProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(config.LogDir), profile.Quiet).Stop()
	}

	if _, err := os.Stat(presenceFile); err == nil && !force {
		utils.Progress("Found presence table, read from %s", presenceFile)
		logger.Printf("Reusing %s", presenceFile)
		return
	}

	m := build()

	var nconst int
	for i := range m.Genes() {
		c := m.CountAt(i)
		if c == 0 || c == len(m.Strains()) {
			nconst++
		}
	}
	utils.Progress("Presence table: %d genes, %d strains, %d genes present in all or none.",
		len(m.Genes()), len(m.Strains()), nconst)

	if err := m.WriteFile(presenceFile); err != nil {
		utils.Fatal(logger, "main", err)
	}

	logger.Printf("Done")
}
