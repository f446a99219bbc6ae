// Package analyze implements the log analysis engine: it streams resolved
// files through the line parser, applies optional severity and time filters,
// and accumulates entries, error/warning lists and severity counts under
// hard output caps.
package analyze

import (
	"context"
	"time"

	"github.com/tinytelemetry/logscope/internal/logsource"
	"github.com/tinytelemetry/logscope/internal/model"
	"github.com/tinytelemetry/logscope/internal/resolver"
)

const (
	// scanEntryCap stops the scan entirely once this many entries have
	// been collected, across all files.
	scanEntryCap = 100
	// maxEntriesShown caps the entries list in the returned result.
	maxEntriesShown = 50
	// maxErrorsShown caps the errors list in the returned result.
	maxErrorsShown = 20
	// maxWarningsShown caps the warnings list in the returned result.
	maxWarningsShown = 20
)

// Request holds the parameters of one analysis run. Nil time bounds are
// open; both bounds are inclusive.
type Request struct {
	Selector       string
	SeverityFilter string
	StartTime      *time.Time
	EndTime        *time.Time
}

// Analyzer runs log analysis against files named by a selector. All mutable
// accumulation state is allocated per call, so concurrent calls are
// independent.
type Analyzer struct {
	resolver *resolver.Resolver
}

// New creates an Analyzer that resolves selectors through r.
func New(r *resolver.Resolver) *Analyzer {
	return &Analyzer{resolver: r}
}

// Analyze resolves the selector and streams every file through the parser.
// Severity totals cover all time-filtered records; the severity filter gates
// which records reach the entries and error/warning lists. The scan stops
// once 100 entries have been collected; the result returns at most the first
// 50 entries, 20 errors and 20 warnings. Any read failure aborts the call
// with a *model.ReadError and no partial result.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.AnalysisResult, error) {
	files, err := a.resolver.Resolve(req.Selector)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &model.NoFilesError{Selector: req.Selector}
	}

	var (
		entries        []model.Entry
		errorEntries   []model.Entry
		warningEntries []model.Entry
		severityCounts = make(map[string]int)
		rangeStart     time.Time
		rangeEnd       time.Time
	)

	for _, path := range files {
		err := logsource.EachRecord(ctx, path, func(rec *model.LogRecord) bool {
			if req.StartTime != nil && rec.Timestamp.Before(*req.StartTime) {
				return true
			}
			if req.EndTime != nil && rec.Timestamp.After(*req.EndTime) {
				return true
			}

			severityCounts[rec.Severity]++

			if req.SeverityFilter != "" && rec.Severity != req.SeverityFilter {
				return true
			}

			switch rec.Severity {
			case model.SeverityError:
				errorEntries = append(errorEntries, newEntry(rec, false))
			case model.SeverityWarning:
				warningEntries = append(warningEntries, newEntry(rec, false))
			}

			entries = append(entries, newEntry(rec, true))
			if rangeStart.IsZero() || rec.Timestamp.Before(rangeStart) {
				rangeStart = rec.Timestamp
			}
			if rangeEnd.IsZero() || rec.Timestamp.After(rangeEnd) {
				rangeEnd = rec.Timestamp
			}

			return len(entries) < scanEntryCap
		})
		if err != nil {
			return nil, err
		}
		if len(entries) >= scanEntryCap {
			break
		}
	}

	var timeRange model.TimeRange
	if len(entries) > 0 {
		timeRange.Start = rangeStart.Format(model.TimestampLayout)
		timeRange.End = rangeEnd.Format(model.TimestampLayout)
	}

	shown := truncate(entries, maxEntriesShown)

	return &model.AnalysisResult{
		FilesAnalyzed: files,
		Selector:      req.Selector,
		Entries:       shown,
		Errors:        truncate(errorEntries, maxErrorsShown),
		Warnings:      truncate(warningEntries, maxWarningsShown),
		Summary: model.AnalysisSummary{
			TotalFilesAnalyzed:   len(files),
			TotalEntriesAnalyzed: len(entries),
			TotalErrors:          len(errorEntries),
			TotalWarnings:        len(warningEntries),
			SeverityCounts:       severityCounts,
			TimeRange:            timeRange,
			EntriesShown:         len(shown),
		},
	}, nil
}

func newEntry(rec *model.LogRecord, withSeverity bool) model.Entry {
	e := model.Entry{
		File:      rec.File,
		Line:      rec.LineNumber,
		Timestamp: rec.Timestamp.Format(model.TimestampLayout),
		ThreadID:  rec.ThreadID,
		Message:   rec.Message,
	}
	if withSeverity {
		e.Severity = rec.Severity
	}
	return e
}

func truncate(entries []model.Entry, limit int) []model.Entry {
	if entries == nil {
		return []model.Entry{}
	}
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
