// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package strains

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Set records the strains used in an analysis and where their
// proteomes are.
type Set struct {

	// The strain whose proteins are the search queries.
	Reference string

	// Strain identifier to proteome file.
	Proteomes map[string]string

	// Phenotype name to the strains positive for it.
	Phenotypes map[string][]string

	// Strains in the phenotype table without a proteome.
	Missing []string
}

// Build selects the strains of the phenotype table that have a
// proteome in dir.  If positiveOnly is true, strains that are not
// positive for any phenotype are dropped, as are strains whose
// proteome is missing.  The reference strain must have a proteome.
func Build(tab *Table, dir, pattern, reference string, positiveOnly bool) (*Set, error) {

	candidates := tab.Strains()
	if positiveOnly {
		pos := make(map[string]bool)
		for _, ph := range tab.Phenotypes() {
			for _, s := range tab.Positive(ph) {
				pos[s] = true
			}
		}
		candidates = nil
		for _, s := range tab.Strains() {
			if pos[s] || s == reference {
				candidates = append(candidates, s)
			}
		}
	}

	found, missing, err := Discover(dir, pattern, candidates)
	if err != nil {
		return nil, err
	}

	if _, ok := found[reference]; !ok {
		if _, intab := tab.index[reference]; !intab {
			// The reference need not be phenotyped.
			f, _, err := Discover(dir, pattern, []string{reference})
			if err != nil {
				return nil, err
			}
			if p, ok := f[reference]; ok {
				found[reference] = p
			}
		}
	}
	if _, ok := found[reference]; !ok {
		return nil, fmt.Errorf("no proteome found for reference strain %s", reference)
	}

	set := &Set{
		Reference:  reference,
		Proteomes:  found,
		Phenotypes: make(map[string][]string),
		Missing:    missing,
	}
	for _, ph := range tab.Phenotypes() {
		for _, s := range tab.Positive(ph) {
			if _, ok := found[s]; ok {
				set.Phenotypes[ph] = append(set.Phenotypes[ph], s)
			}
		}
	}

	return set, nil
}

// NumPositive returns the number of strains with a proteome that are
// positive for phenotype ph.
func (set *Set) NumPositive(ph string) int {
	return len(set.Phenotypes[ph])
}

// Names returns all strain identifiers in sorted order.
func (set *Set) Names() []string {
	var names []string
	for s := range set.Proteomes {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// ReferenceProteome returns the proteome file of the reference
// strain.
func (set *Set) ReferenceProteome() string {
	return set.Proteomes[set.Reference]
}

// Save writes the set in JSON format.
func (set *Set) Save(filename string) error {

	fid, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fid.Close()

	enc := json.NewEncoder(fid)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// Load reads a set written by Save.
func Load(filename string) (*Set, error) {

	fid, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	set := new(Set)
	if err := json.NewDecoder(fid).Decode(set); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if set.Reference == "" || len(set.Proteomes) == 0 {
		return nil, fmt.Errorf("%s: no strains recorded", filename)
	}

	return set, nil
}
