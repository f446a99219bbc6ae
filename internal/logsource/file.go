// Package logsource streams parsed log records out of files on disk.
package logsource

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/logscope/internal/logparse"
	"github.com/tinytelemetry/logscope/internal/model"
)

// DefaultMaxLineSize is the maximum size (in bytes) of a single log line.
const DefaultMaxLineSize = 1024 * 1024 // 1MB

// EachRecord streams path line by line through the log parser and calls fn
// for every record that matches the grammar. Lines failing the grammar are
// skipped silently. fn returning false stops the scan early; the check runs
// after every record so a single huge file still respects caller caps.
//
// Any I/O failure is returned as a *model.ReadError. Context cancellation
// is honored between lines only, never mid-line.
func EachRecord(ctx context.Context, path string, fn func(*model.LogRecord) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return &model.ReadError{File: path, Err: err}
	}
	defer f.Close()

	base := filepath.Base(path)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, DefaultMaxLineSize), DefaultMaxLineSize)

	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNum++

		rec := logparse.ParseLine(scanner.Text(), lineNum)
		if rec == nil {
			continue
		}
		rec.File = base

		if !fn(rec) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return &model.ReadError{File: path, Err: err}
	}
	return nil
}
