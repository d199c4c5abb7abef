// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package search

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kshedden/phenogene/utils"
)

// DomainHit is one data row of a HMMER --domtblout file.
type DomainHit struct {
	Target    string      `csv:"target name"`
	TargetAcc string      `csv:"target accession"`
	TLen      int         `csv:"tlen"`
	Query     string      `csv:"query name"`
	QueryAcc  string      `csv:"query accession"`
	QLen      int         `csv:"qlen"`
	E         utils.Float `csv:"E-value"`
	Score     utils.Float `csv:"score"`
	Bias      utils.Float `csv:"bias"`
	Dom       int         `csv:"#"`
	NDom      int         `csv:"of"`
	CE        utils.Float `csv:"c-Evalue"`
	IE        utils.Float `csv:"i-Evalue"`
	DomScore  utils.Float `csv:"domain score"`
	DomBias   utils.Float `csv:"domain bias"`
	HMMFrom   int         `csv:"hmm from"`
	HMMTo     int         `csv:"hmm to"`
	AliFrom   int         `csv:"ali from"`
	AliTo     int         `csv:"ali to"`
	EnvFrom   int         `csv:"env from"`
	EnvTo     int         `csv:"env to"`
	Acc       utils.Float `csv:"acc"`
	Desc      string      `csv:"description of target"`
}

// Number of fixed, whitespace separated columns before the
// free-text target description.
const domtblFields = 22

func parseDomainHit(line string) (*DomainHit, error) {

	f := strings.Fields(line)
	if len(f) < domtblFields {
		return nil, fmt.Errorf("expected at least %d fields, found %d", domtblFields, len(f))
	}

	var err error
	atoi := func(s string) int {
		if err != nil {
			return 0
		}
		var x int
		x, err = strconv.Atoi(s)
		return x
	}
	atof := func(s string) utils.Float {
		if err != nil {
			return 0
		}
		var x float64
		x, err = strconv.ParseFloat(s, 64)
		return utils.Float(x)
	}

	h := &DomainHit{
		Target:    f[0],
		TargetAcc: f[1],
		TLen:      atoi(f[2]),
		Query:     f[3],
		QueryAcc:  f[4],
		QLen:      atoi(f[5]),
		E:         atof(f[6]),
		Score:     atof(f[7]),
		Bias:      atof(f[8]),
		Dom:       atoi(f[9]),
		NDom:      atoi(f[10]),
		CE:        atof(f[11]),
		IE:        atof(f[12]),
		DomScore:  atof(f[13]),
		DomBias:   atof(f[14]),
		HMMFrom:   atoi(f[15]),
		HMMTo:     atoi(f[16]),
		AliFrom:   atoi(f[17]),
		AliTo:     atoi(f[18]),
		EnvFrom:   atoi(f[19]),
		EnvTo:     atoi(f[20]),
		Acc:       atof(f[21]),
		Desc:      strings.Join(f[domtblFields:], " "),
	}
	if err != nil {
		return nil, err
	}

	return h, nil
}

// ParseDomtbl reads all data rows of a --domtblout file.  Comment
// lines start with '#'.
func ParseDomtbl(r io.Reader) ([]*DomainHit, error) {

	scanner := utils.NewScanner(r)

	var hits []*DomainHit
	var lnum int
	for scanner.Scan() {
		lnum++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		h, err := parseDomainHit(line)
		if err != nil {
			return nil, fmt.Errorf("domain table line %d: %w", lnum, err)
		}
		hits = append(hits, h)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return hits, nil
}

// ReadDomtbl reads a possibly compressed --domtblout file.
func ReadDomtbl(name string) ([]*DomainHit, error) {

	r, err := utils.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	hits, err := ParseDomtbl(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return hits, nil
}
