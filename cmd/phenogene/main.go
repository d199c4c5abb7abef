// Copyright 2017, Kerby Shedden and the Phenogene contributors.

// phenogene finds reference strain genes whose presence across a set
// of bacterial strains is associated with a phenotype.
//
// The pipeline has four steps, each run by its own program:
//
// 1. phenogene_gather finds the proteome of every strain in the
// phenotype table and concatenates them into one protein database.
//
// 2. phenogene_search runs jackhmmer with each protein of the
// reference strain as a query against the database.
//
// 3. phenogene_hits keeps the query/target pairs meeting the gather
// thresholds, and phenogene_presence turns them into a gene by strain
// presence/absence table.
//
// 4. phenogene_correlate tests each gene for association with the
// phenotype, using point-biserial or Pearson correlation.
//
// This program runs the steps in order as a workflow.  A step whose
// outputs already exist is not run again, so an interrupted pipeline
// can be restarted with the same configuration.  The programs can
// also be run one at a time with the configuration file as argument.
//
// The configuration file is YAML, TOML or JSON, chosen by extension:
//
// phenogene --ConfigFileName=config.yaml
//
// See utils/config.go for the configuration parameters.  Log files
// and the effective configuration are written to LogDir/#####, where
// ##### is a generated id.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kshedden/phenogene/correlate"
	"github.com/kshedden/phenogene/strains"
	"github.com/kshedden/phenogene/utils"
	"github.com/pkg/profile"
	"github.com/scipipe/scipipe"
)

var (
	configFilePath string

	config *utils.Config

	logger *log.Logger
)

func handleArgs() {

	ConfigFileName := flag.String("ConfigFileName", "", "YAML, TOML or JSON file containing configuration parameters")
	PhenotypeFileName := flag.String("PhenotypeFileName", "", "Tab-delimited strain by phenotype table")
	ProteomeDir := flag.String("ProteomeDir", "", "Directory containing the strain proteomes")
	ProteomePattern := flag.String("ProteomePattern", "", "Glob pattern selecting proteome files")
	ReferenceStrain := flag.String("ReferenceStrain", "", "Strain whose proteins are the queries")
	DomtblFileName := flag.String("DomtblFileName", "", "jackhmmer domain table")
	OutDir := flag.String("OutDir", "", "Directory for the correlation results")
	LogDir := flag.String("LogDir", "", "Directory for log files")
	NumCPU := flag.Int("NumCPU", 0, "Number of threads used by jackhmmer")
	Jackhmmer := flag.String("Jackhmmer", "", "jackhmmer executable")
	ThresholdsFileName := flag.String("ThresholdsFileName", "", "File containing the search and gather thresholds")
	PositiveOnly := flag.Bool("PositiveOnly", false, "Only use strains positive for some phenotype")
	CPUProfile := flag.Bool("CPUProfile", false, "Capture CPU profile data")

	flag.Parse()

	if *ConfigFileName == "" {
		os.Stderr.WriteString("\nConfigFileName not provided, run 'phenogene --help' for more information.\n\n")
		os.Exit(1)
	}

	var err error
	config, err = utils.ReadConfig(*ConfigFileName)
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("%v\n", err))
		os.Exit(1)
	}

	if *PhenotypeFileName != "" {
		config.PhenotypeFileName = *PhenotypeFileName
	}
	if *ProteomeDir != "" {
		config.ProteomeDir = *ProteomeDir
	}
	if *ProteomePattern != "" {
		config.ProteomePattern = *ProteomePattern
	}
	if *ReferenceStrain != "" {
		config.ReferenceStrain = *ReferenceStrain
	}
	if *DomtblFileName != "" {
		config.DomtblFileName = *DomtblFileName
	}
	if *OutDir != "" {
		config.OutDir = *OutDir
	}
	if *LogDir != "" {
		config.LogDir = *LogDir
	}
	if *NumCPU != 0 {
		config.NumCPU = *NumCPU
	}
	if *Jackhmmer != "" {
		config.Jackhmmer = *Jackhmmer
	}
	if *PositiveOnly {
		config.PositiveOnly = true
	}
	if *CPUProfile {
		config.CPUProfile = true
	}

	// The thresholds file is read once here, the stages use the saved
	// thresholds.
	if *ThresholdsFileName != "" {
		c := &utils.Config{ThresholdsFileName: *ThresholdsFileName}
		if err := c.LoadThresholds(); err != nil {
			os.Stderr.WriteString(fmt.Sprintf("%v\n", err))
			os.Exit(1)
		}
		config.Thresholds = c.Thresholds
	}
	config.ThresholdsFileName = ""
}

func checkArgs() {

	if err := config.Validate(); err != nil {
		os.Stderr.WriteString(fmt.Sprintf("\n%v, run 'phenogene --help' for more information.\n\n", err))
		os.Exit(1)
	}

	if err := config.MakeAbsolute(); err != nil {
		os.Stderr.WriteString(fmt.Sprintf("%v\n", err))
		os.Exit(1)
	}
}

// setupEnvs puts the directory of this executable on the PATH so that
// the stage programs installed next to it are found.
func setupEnvs() {

	exe, err := os.Executable()
	if err != nil {
		utils.Fatal(nil, "setupEnvs", err)
	}

	err = os.Setenv("PATH", os.Getenv("PATH")+string(os.PathListSeparator)+filepath.Dir(exe))
	if err != nil {
		utils.Fatal(nil, "setupEnvs", err)
	}
}

func makeLogDir() {

	dir, err := utils.RunDir(config.LogDir)
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("%v\n", err))
		os.Exit(1)
	}
	config.LogDir = dir
}

func saveConfig() {

	configFilePath = filepath.Join(config.LogDir, "config.json")
	if err := utils.SaveConfig(config, configFilePath); err != nil {
		utils.Fatal(logger, "saveConfig", err)
	}
}

func analyses() []utils.Analysis {

	if len(config.Analyses) > 0 {
		return config.Analyses
	}

	tab, err := strains.ReadPhenotypeFile(config.PhenotypeFileName)
	if err != nil {
		utils.Fatal(logger, "analyses", err)
	}

	return correlate.DefaultAnalyses(tab)
}

// outputs returns every file written by the workflow, by process
// and port.  The correlate process of analysis k is "correlate_k".
func outputs(al []utils.Analysis) map[string]map[string]string {

	out := map[string]map[string]string{
		"gather": {
			"db":      config.DatabaseFileName,
			"strains": config.StrainsFileName,
		},
		"search": {
			"domtbl": config.DomtblFileName,
		},
		"hits": {
			"rows":    config.GatherDomtblFileName(),
			"matches": config.MatchFileName(),
		},
		"presence": {
			"presence": config.PresenceFileName(),
		},
	}
	for k, a := range al {
		out[fmt.Sprintf("correlate_%d", k)] = map[string]string{
			"results": config.AnalysisFileName(a),
		}
	}

	return out
}

// makeOutputDirs creates the directories of all workflow outputs.
// scipipe writes each audit file into the output's final directory
// and does not create it.
func makeOutputDirs(out map[string]map[string]string) error {
	for _, ports := range out {
		for _, fn := range ports {
			if err := os.MkdirAll(filepath.Dir(fn), os.ModePerm); err != nil {
				return err
			}
		}
	}
	return nil
}

func run() {

	al := analyses()
	out := outputs(al)
	if err := makeOutputDirs(out); err != nil {
		utils.Fatal(logger, "run", err)
	}

	wf := scipipe.NewWorkflow("phenogene", 1)

	ga := wf.NewProc("gather",
		fmt.Sprintf("phenogene_gather -db {o:db} -strains {o:strains} %s", configFilePath))
	ga.SetOut("db", out["gather"]["db"])
	ga.SetOut("strains", out["gather"]["strains"])

	se := wf.NewProc("search",
		fmt.Sprintf("phenogene_search -strains {i:strains} -db {i:db} -out {o:domtbl} %s", configFilePath))
	se.In("strains").From(ga.Out("strains"))
	se.In("db").From(ga.Out("db"))
	se.SetOut("domtbl", out["search"]["domtbl"])

	hi := wf.NewProc("hits",
		fmt.Sprintf("phenogene_hits -strains {i:strains} -domtbl {i:domtbl} -rows {o:rows} -out {o:matches} %s",
			configFilePath))
	hi.In("strains").From(ga.Out("strains"))
	hi.In("domtbl").From(se.Out("domtbl"))
	hi.SetOut("rows", out["hits"]["rows"])
	hi.SetOut("matches", out["hits"]["matches"])

	pr := wf.NewProc("presence",
		fmt.Sprintf("phenogene_presence -strains {i:strains} -matches {i:matches} -out {o:presence} %s",
			configFilePath))
	pr.In("strains").From(ga.Out("strains"))
	pr.In("matches").From(hi.Out("matches"))
	pr.SetOut("presence", out["presence"]["presence"])

	for k, a := range al {
		name := fmt.Sprintf("correlate_%d", k)
		co := wf.NewProc(name,
			fmt.Sprintf("phenogene_correlate -analysis %d -presence {i:presence} -out {o:results} %s",
				k, configFilePath))
		co.In("presence").From(pr.Out("presence"))
		co.SetOut("results", out[name]["results"])
		logger.Printf("%s: analysis %q, results in %s", name, a.Name, out[name]["results"])
	}

	wf.Run()
}

func main() {

	handleArgs()
	checkArgs()
	setupEnvs()
	makeLogDir()

	// The logger is not available until after makeLogDir runs.
	logger = utils.SetupLog(config.LogDir, "phenogene")

	if config.CPUProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(config.LogDir), profile.Quiet).Stop()
	}

	logger.Printf("Starting saveConfig...")
	saveConfig()

	logger.Printf("Starting workflow...")
	run()

	utils.Progress("Logs and configuration are in %s", config.LogDir)
	logger.Printf("All done, exiting")
}
