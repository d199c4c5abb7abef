// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// phenogene_search runs jackhmmer with every protein of the reference
// strain as a query against the combined protein database, writing
// the domain table to DomtblFileName.
//
// If ResumeOffset (or -offset) is positive, the queries start at that
// byte of the decompressed reference proteome, and the new domain
// table rows are appended to the existing table.  phenogene_locate
// gives the offset of a protein.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kshedden/phenogene/search"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
	"github.com/pkg/profile"
)

var (
	config *utils.Config

	logger *log.Logger

	strainsFile string
)

func handleArgs() {

	sf := flag.String("strains", "", "Strains file written by phenogene_gather")
	db := flag.String("db", "", "Protein database, overrides DatabaseFileName")
	out := flag.String("out", "", "Domain table, overrides DomtblFileName")
	offset := flag.Int64("offset", -1, "Byte offset of the first query, overrides ResumeOffset")
	flag.Parse()

	if flag.NArg() != 1 {
		os.Stderr.WriteString("phenogene_search: usage\n")
		os.Stderr.WriteString("  phenogene_search [-strains file] [-db file] [-out file] [-offset n] config\n\n")
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
	if *out != "" {
		config.DomtblFileName = *out
	}
	if *offset >= 0 {
		config.ResumeOffset = *offset
	}
	strainsFile = config.StrainsFileName
	if *sf != "" {
		strainsFile = *sf
	}
}

// appendFile copies src to the end of dst and removes src.
func appendFile(dst, src string) error {

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}

func run(ctx context.Context, set *strains.Set) {

	jh := search.NewJackhmmer(config)

	// jackhmmer truncates its --domtblout file, so a resumed search
	// writes to a side file first.
	resume := config.ResumeOffset > 0
	if resume {
		jh.Domtbl = fmt.Sprintf("%s.part%d", config.DomtblFileName, config.ResumeOffset)
	}

	utils.Progress("Running %s on %d strains...", config.Jackhmmer, len(set.Proteomes))
	logger.Printf("%s %v", jh.Path, jh.Args())

	err := jh.RunFile(ctx, set.ReferenceProteome(), config.ResumeOffset, logger)
	if err != nil {
		utils.Fatal(logger, "run", err)
	}

	if resume {
		if err := appendFile(config.DomtblFileName, jh.Domtbl); err != nil {
			utils.Fatal(logger, "run", err)
		}
	}
}

func main() {

	handleArgs()
	logger = utils.SetupLog(config.LogDir, "phenogene_search")

	if config.CPUProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(config.LogDir), profile.Quiet).Stop()
	}

	set, err := strains.Load(strainsFile)
	if err != nil {
		utils.Fatal(logger, "main", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Printf("Starting run...")
	run(ctx, set)
	logger.Printf("Done")
}
