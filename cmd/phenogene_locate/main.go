// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// phenogene_locate prints the byte offset of a protein in the
// (decompressed) reference proteome.  After an interrupted search,
// use the offset of the protein following the last one in the domain
// table as ResumeOffset, or pass -next with the last protein.
//
// Usage:
//
// phenogene_locate [-next] config protein_id

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kshedden/phenogene/proteome"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
)

func main() {

	next := flag.Bool("next", false, "Print the offset of the record following the protein")
	sf := flag.String("strains", "", "Strains file written by phenogene_gather")
	flag.Parse()

	if flag.NArg() != 2 {
		os.Stderr.WriteString("phenogene_locate: usage\n")
		os.Stderr.WriteString("  phenogene_locate [-next] [-strains file] config protein_id\n\n")
		os.Exit(1)
	}

	config, err := utils.ReadConfig(flag.Arg(0))
	if err != nil {
		utils.Fatal(nil, "main", err)
	}
	if *sf != "" {
		config.StrainsFileName = *sf
	}

	set, err := strains.Load(config.StrainsFileName)
	if err != nil {
		utils.Fatal(nil, "main", err)
	}
	ref := set.ReferenceProteome()

	offset, err := proteome.LocateFile(ref, flag.Arg(1))
	if err != nil {
		utils.Fatal(nil, "main", err)
	}

	if *next {
		r, err := utils.Open(ref)
		if err != nil {
			utils.Fatal(nil, "main", err)
		}
		defer r.Close()
		offset, err = proteome.Next(r, offset)
		if err != nil {
			utils.Fatal(nil, "main", err)
		}
	}

	fmt.Println(offset)
}
