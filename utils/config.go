// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Thresholds holds the jackhmmer reporting/inclusion thresholds and
// the cutoffs used when gathering hits into matches.
type Thresholds struct {

	// Proteins shorter than this are left out of the database.
	MinProteinLen int `yaml:"MinProteinLen"`

	// jackhmmer -E, --incE, --domE and --incdomE.
	E       float64 `yaml:"E"`
	IncE    float64 `yaml:"IncE"`
	DomE    float64 `yaml:"DomE"`
	IncDomE float64 `yaml:"IncDomE"`

	// A query/target pair is a match only if its full sequence
	// E-value is at most GatherE and its best domain i-Evalue is at
	// most GatherDomE.
	GatherE    float64 `yaml:"GatherE"`
	GatherDomE float64 `yaml:"GatherDomE"`

	// Minimum fraction of the query covered by the aligned domains.
	GatherCov float64 `yaml:"GatherCov"`

	// Maximum of |qlen - tlen| / min(qlen, tlen).
	LenDiff float64 `yaml:"LenDiff"`
}

// Analysis describes one correlation run over the presence table.
type Analysis struct {

	// Used in log messages and for the default output name.
	Name string `yaml:"Name"`

	// One of "pointbiserial", "pearson" or "auto".
	Method string `yaml:"Method"`

	// pointbiserial: a strain scores 1 if it is positive for any of
	// these phenotypes, otherwise 0.
	Phenotypes []string `yaml:"Phenotypes"`

	// pearson: a strain scores the value given for its phenotype, or
	// 0 if it is positive for none of them.
	Scores map[string]float64 `yaml:"Scores"`

	// auto: the raw phenotype values in this column are used.
	Column string `yaml:"Column"`

	// File name for the results, relative to OutDir.
	Output string `yaml:"Output"`
}

type Config struct {

	// Tab-delimited table of strains (rows) and phenotypes
	// (columns).
	PhenotypeFileName string `yaml:"PhenotypeFileName"`

	// Directory holding one proteome file per strain.
	ProteomeDir string `yaml:"ProteomeDir"`

	// Glob selecting the proteome files in ProteomeDir.
	ProteomePattern string `yaml:"ProteomePattern"`

	// Symlinks to the proteomes of all strains in the phenotype
	// table are placed here.  The directory is cleared on each run.
	LinkDir string `yaml:"LinkDir"`

	// The concatenated protein database searched by jackhmmer.
	DatabaseFileName string `yaml:"DatabaseFileName"`

	// Strains and their proteome files, written by
	// phenogene_gather and read by all later stages.
	StrainsFileName string `yaml:"StrainsFileName"`

	// jackhmmer --domtblout file.
	DomtblFileName string `yaml:"DomtblFileName"`

	// The strain whose proteins are used as queries.
	ReferenceStrain string `yaml:"ReferenceStrain"`

	// Number of threads given to jackhmmer.
	NumCPU int `yaml:"NumCPU"`

	// The jackhmmer executable.
	Jackhmmer string `yaml:"Jackhmmer"`

	// Byte offset into the decompressed reference proteome where the
	// search starts.  Use phenogene_locate to find the offset after
	// an interrupted run.
	ResumeOffset int64 `yaml:"ResumeOffset"`

	// If true, only strains positive for at least one phenotype are
	// kept.
	PositiveOnly bool `yaml:"PositiveOnly"`

	// Correlation results are written here.
	OutDir string `yaml:"OutDir"`

	// Logs are written to LogDir/<run id>.
	LogDir string `yaml:"LogDir"`

	// Optional separate file holding the Thresholds.
	ThresholdsFileName string `yaml:"ThresholdsFileName"`

	Thresholds Thresholds `yaml:"Thresholds"`

	// If empty, one "auto" analysis is run for each phenotype.
	Analyses []Analysis `yaml:"Analyses"`

	// Capture CPU profile data into the log directory.
	CPUProfile bool `yaml:"CPUProfile"`
}

// DefaultThresholds returns the thresholds used when none are given.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinProteinLen: 60,
		E:             1e-5,
		IncE:          1e-10,
		DomE:          1e-5,
		IncDomE:       1e-10,
		GatherE:       1e-10,
		GatherDomE:    1e-20,
		GatherCov:     0.7,
		LenDiff:       0.2,
	}
}

// decode reads filename into v, choosing the format from the file
// extension.
func decode(filename string, v interface{}) error {

	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, v)
	case ".toml":
		_, err = toml.Decode(string(b), v)
	default:
		err = json.Unmarshal(b, v)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	return nil
}

// ReadConfig reads a YAML, TOML or JSON configuration file.  Unset
// parameters are given their default values.
func ReadConfig(filename string) (*Config, error) {

	config := new(Config)
	config.Thresholds = DefaultThresholds()
	if err := decode(filename, config); err != nil {
		return nil, err
	}

	if err := config.LoadThresholds(); err != nil {
		return nil, err
	}

	config.SetDefaults()

	return config, nil
}

// LoadThresholds replaces the thresholds with those read from
// ThresholdsFileName, if it is set.  Thresholds missing from the file
// get their default values.
func (config *Config) LoadThresholds() error {

	if config.ThresholdsFileName == "" {
		return nil
	}

	t := DefaultThresholds()
	if err := decode(config.ThresholdsFileName, &t); err != nil {
		return err
	}
	config.Thresholds = t

	return nil
}

// SetDefaults fills in unset parameters.
func (config *Config) SetDefaults() {

	if config.ProteomePattern == "" {
		config.ProteomePattern = "*.faa.gz"
	}
	if config.LinkDir == "" {
		config.LinkDir = "all_proteomes"
	}
	if config.DatabaseFileName == "" {
		config.DatabaseFileName = filepath.Join("all_proteomes_db", "all_proteomes.fasta")
	}
	if config.StrainsFileName == "" {
		config.StrainsFileName = "strains.json"
	}
	if config.DomtblFileName == "" {
		config.DomtblFileName = "domtblout.txt"
	}
	if config.NumCPU == 0 {
		config.NumCPU = 16
	}
	if config.Jackhmmer == "" {
		config.Jackhmmer = "jackhmmer"
	}
	if config.OutDir == "" {
		config.OutDir = "."
	}
	if config.LogDir == "" {
		config.LogDir = "phenogene_logs"
	}
	if config.Thresholds == (Thresholds{}) {
		config.Thresholds = DefaultThresholds()
	}
}

// Validate checks that the parameters needed by every stage are set.
func (config *Config) Validate() error {

	if config.PhenotypeFileName == "" {
		return fmt.Errorf("PhenotypeFileName not provided")
	}
	if config.ProteomeDir == "" {
		return fmt.Errorf("ProteomeDir not provided")
	}
	if config.ReferenceStrain == "" {
		return fmt.Errorf("ReferenceStrain not provided")
	}

	t := config.Thresholds
	if t.GatherCov < 0 || t.GatherCov > 1 {
		return fmt.Errorf("GatherCov must be between 0 and 1, got %v", t.GatherCov)
	}
	if t.LenDiff < 0 {
		return fmt.Errorf("LenDiff must be non-negative, got %v", t.LenDiff)
	}

	for _, a := range config.Analyses {
		switch a.Method {
		case "pointbiserial":
			if len(a.Phenotypes) == 0 {
				return fmt.Errorf("analysis %q: no Phenotypes given", a.Name)
			}
		case "pearson":
			if len(a.Scores) == 0 {
				return fmt.Errorf("analysis %q: no Scores given", a.Name)
			}
		case "auto":
			if a.Column == "" {
				return fmt.Errorf("analysis %q: no Column given", a.Name)
			}
		default:
			return fmt.Errorf("analysis %q: unknown Method %q", a.Name, a.Method)
		}
	}

	return nil
}

// MakeAbsolute rewrites all file and directory names as absolute
// paths, so that the configuration can be used from any working
// directory.
func (config *Config) MakeAbsolute() error {

	for _, p := range []*string{
		&config.PhenotypeFileName,
		&config.ProteomeDir,
		&config.LinkDir,
		&config.DatabaseFileName,
		&config.StrainsFileName,
		&config.DomtblFileName,
		&config.OutDir,
		&config.LogDir,
		&config.ThresholdsFileName,
	} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		a, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = a
	}

	return nil
}

func ftoa(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// withSuffix replaces the extension of name with suffix.
func withSuffix(name, suffix string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + suffix
}

func (config *Config) gatherTag() string {
	t := config.Thresholds
	return fmt.Sprintf("_E%s_DOME%s_COV%s_LDIF%s", ftoa(t.GatherE), ftoa(t.GatherDomE),
		ftoa(t.GatherCov), ftoa(t.LenDiff))
}

// GatherDomtblFileName is the file holding the domain table rows of
// all retained matches.
func (config *Config) GatherDomtblFileName() string {
	return withSuffix(config.DomtblFileName, config.gatherTag()+".tsv")
}

// MatchFileName is the file holding one row per retained
// query/target match.
func (config *Config) MatchFileName() string {
	return withSuffix(config.DomtblFileName, "_matches"+config.gatherTag()+".tsv")
}

// PresenceFileName is the file holding the gene by strain presence
// table.
func (config *Config) PresenceFileName() string {
	m := config.MatchFileName()
	base := "presence_" + filepath.Base(m)
	return filepath.Join(filepath.Dir(m), base)
}

// AnalysisFileName is the results file for the given analysis.
func (config *Config) AnalysisFileName(a Analysis) string {
	name := a.Output
	if name == "" {
		name = "corr_" + Slug(a.Name) + ".tsv"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(config.OutDir, name)
}

// Slug turns a phenotype or analysis name into something usable in a
// file name.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// SaveConfig writes the configuration in JSON format to the given
// file.
func SaveConfig(config *Config, filename string) error {

	fid, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fid.Close()

	enc := json.NewEncoder(fid)
	enc.SetIndent("", "  ")
	return enc.Encode(config)
}
