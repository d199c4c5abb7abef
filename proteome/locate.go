// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package proteome

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kshedden/phenogene/utils"
)

// Locate returns the byte offset, within the decompressed data read
// from r, of the header line of the record with identifier id.  A
// jackhmmer run that stopped while processing id can be resumed from
// this offset.
func Locate(r io.Reader, id string) (int64, error) {

	br := bufio.NewReader(r)

	var pos int64
	for {
		line, err := br.ReadString('\n')
		if strings.HasPrefix(line, ">") {
			name := strings.TrimSpace(line[1:])
			if i := strings.IndexAny(name, " \t"); i >= 0 {
				name = name[:i]
			}
			if name == id {
				return pos, nil
			}
		}
		pos += int64(len(line))

		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	return 0, fmt.Errorf("protein %s not found", id)
}

// LocateFile is like Locate, reading from a possibly compressed file.
func LocateFile(name, id string) (int64, error) {

	r, err := utils.Open(name)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	return Locate(r, id)
}

// Next returns the offset of the first record header that follows
// the record starting at offset.  It is used to skip a protein that
// jackhmmer cannot process.
func Next(r io.Reader, offset int64) (int64, error) {

	if _, err := io.CopyN(io.Discard, r, offset); err != nil {
		return 0, err
	}

	br := bufio.NewReader(r)
	pos := offset
	first := true
	for {
		line, err := br.ReadString('\n')
		if strings.HasPrefix(line, ">") && !first {
			return pos, nil
		}
		first = false
		pos += int64(len(line))

		if err == io.EOF {
			return pos, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
