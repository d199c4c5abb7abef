// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package proteome

import (
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Counts reports, for one strain, how many proteins were written to
// the database and how many were too short.
type Counts struct {
	Kept  int
	Short int
}

// BuildDatabase writes the proteins of every strain to w, each
// identifier prefixed by the strain name and an underscore.
// Proteins shorter than minLen are skipped.  Strains are written in
// sorted order.
func BuildDatabase(w io.Writer, proteomes map[string]string, minLen int, logger *log.Logger) (map[string]Counts, error) {

	var names []string
	for st := range proteomes {
		names = append(names, st)
	}
	sort.Strings(names)

	wtr := fasta.NewWriter(w, lineWidth)
	counts := make(map[string]Counts)

	for _, st := range names {
		var c Counts
		err := ScanFile(proteomes[st], func(s *linear.Seq) error {
			if s.Len() < minLen {
				c.Short++
				return nil
			}
			s.ID = st + "_" + s.ID
			if _, err := wtr.Write(s); err != nil {
				return err
			}
			c.Kept++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("strain %s (%s): %w", st, proteomes[st], err)
		}

		counts[st] = c
		if logger != nil {
			logger.Printf("%s: %d proteins written, %d shorter than %d skipped", st, c.Kept, c.Short, minLen)
		}
	}

	return counts, nil
}
