// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// RunDir creates a uniquely named directory under base for the logs
// of one pipeline run.
func RunDir(base string) (string, error) {

	xuid, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(base, xuid.String())
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("directory %s cannot be created: %w", dir, err)
	}

	return dir, nil
}

// SetupLog creates a logger writing to name.log in the log
// directory.  If the log file cannot be created, logging goes to
// stderr.
func SetupLog(logdir, name string) *log.Logger {

	var w io.Writer = os.Stderr
	if logdir != "" {
		if err := os.MkdirAll(logdir, os.ModePerm); err == nil {
			fid, err := os.Create(filepath.Join(logdir, name+".log"))
			if err == nil {
				w = fid
			}
		}
	}

	return log.New(w, "", log.Ltime)
}

// Progress writes a one line progress message to stderr.
func Progress(format string, args ...interface{}) {
	io.WriteString(os.Stderr, fmt.Sprintf(format, args...)+"\n")
}

// Fatal reports an error on stderr and in the log, then exits.
func Fatal(logger *log.Logger, where string, err error) {
	os.Stderr.WriteString(fmt.Sprintf("Error in %s, see log files for details.\n", where))
	if logger != nil {
		logger.Print(err)
	}
	log.Fatal(err)
}
