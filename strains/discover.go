// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package strains

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var tokenSplit = regexp.MustCompile(`[_.]`)

// matches reports whether the file name, split on '_' and '.',
// contains the strain identifier as a token.
func matches(fname, strain string) bool {
	for _, tok := range tokenSplit.Split(fname, -1) {
		if tok == strain {
			return true
		}
	}
	return false
}

// Discover finds the proteome file of each strain among the files in
// dir matching pattern.  The first matching file, in name order, is
// used.  Strains without a proteome are returned in missing.
func Discover(dir, pattern string, strains []string) (found map[string]string, missing []string, err error) {

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(files)

	found = make(map[string]string)
	for _, st := range strains {
		for _, f := range files {
			if matches(filepath.Base(f), st) {
				found[st] = f
				break
			}
		}
		if _, ok := found[st]; !ok {
			missing = append(missing, st)
		}
	}

	return found, missing, nil
}

// LinkFarm empties dir, creating it if needed, and fills it with
// relative symbolic links to the given files.
func LinkFarm(dir string, files map[string]string) error {

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	old, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range old {
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}

	absdir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	for _, f := range files {
		absf, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absdir, absf)
		if err != nil {
			return err
		}
		link := filepath.Join(dir, filepath.Base(f))
		if err := os.Symlink(rel, link); err != nil {
			if os.IsExist(err) {
				// Two strains share a proteome file.
				continue
			}
			return fmt.Errorf("linking %s: %w", f, err)
		}
	}

	return nil
}
