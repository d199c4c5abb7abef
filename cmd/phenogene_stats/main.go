// Copyright 2017, Kerby Shedden and the Phenogene contributors.
//
// phenogene_stats summarizes the presence table and the matches it
// was built from.  For each gene, the number of strains and matches,
// the largest number of copies in one strain and the best E-value are
// written to <presence>_genestats.tsv.  For each strain, the number
// of genes and matches are written to <presence>_strainstats.tsv.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kshedden/phenogene/presence"
	"github.com/kshedden/phenogene/search"
	"github.com/kshedden/phenogene/utils"
)

func outName(name, tag string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + tag + ext
}

func main() {

	pf := flag.String("presence", "", "Presence table, overrides the name derived from the configuration")
	mf := flag.String("matches", "", "Match table, overrides the name derived from the configuration")
	flag.Parse()

	if flag.NArg() != 1 {
		os.Stderr.WriteString(fmt.Sprintf("%s: wrong number of arguments\n", os.Args[0]))
		os.Exit(1)
	}

	config, err := utils.ReadConfig(flag.Arg(0))
	if err != nil {
		utils.Fatal(nil, "main", err)
	}
	logger := utils.SetupLog(config.LogDir, "phenogene_stats")

	presenceFile := config.PresenceFileName()
	if *pf != "" {
		presenceFile = *pf
	}
	matchFile := config.MatchFileName()
	if *mf != "" {
		matchFile = *mf
	}

	m, err := presence.ReadFile(presenceFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			msg := fmt.Sprintf("Cannot open presence table %s, see log files for details.\n", presenceFile)
			os.Stderr.WriteString(msg)
		}
		utils.Fatal(logger, "main", err)
	}

	matches, err := search.ReadMatches(matchFile)
	if err != nil {
		utils.Fatal(logger, "main", err)
	}

	gs := presence.GeneStats(m, matches)
	fn := outName(presenceFile, "genestats")
	if err := utils.WriteTSV(fn, gs); err != nil {
		utils.Fatal(logger, "main", err)
	}
	logger.Printf("Wrote %s", fn)

	ss := presence.StrainStats(m, matches)
	fn = outName(presenceFile, "strainstats")
	if err := utils.WriteTSV(fn, ss); err != nil {
		utils.Fatal(logger, "main", err)
	}
	logger.Printf("Wrote %s", fn)
}
