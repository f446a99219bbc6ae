// Package service binds the file resolver and the two analysis engines
// behind the operation surface shared by the HTTP API and socket RPC.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/logscope/internal/analyze"
	"github.com/tinytelemetry/logscope/internal/model"
	"github.com/tinytelemetry/logscope/internal/patterns"
	"github.com/tinytelemetry/logscope/internal/resolver"
)

// timeLayouts are accepted for the optional start_time / end_time arguments.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Service implements model.LogAnalyzer. Each call allocates its own
// accumulation state, so concurrent calls are independent.
type Service struct {
	analyzer *analyze.Analyzer
	patterns *patterns.Analyzer
	log      logrus.FieldLogger
}

// New creates a Service over the given resolver. key selects the pattern key
// derivation; nil means the built-in normalization passes.
func New(r *resolver.Resolver, key patterns.KeyFunc, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	pa := patterns.New(r)
	if key != nil {
		pa = patterns.NewWithKeyFunc(r, key)
	}
	return &Service{
		analyzer: analyze.New(r),
		patterns: pa,
		log:      log,
	}
}

// AnalyzeLogFile runs the log analysis operation.
func (s *Service) AnalyzeLogFile(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResult, error) {
	selector := strings.TrimSpace(req.Selector)
	if selector == "" {
		return nil, model.ErrNoSelector
	}

	start, err := parseTime("start_time", req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("end_time", req.EndTime)
	if err != nil {
		return nil, err
	}

	logger := s.log.WithFields(logrus.Fields{
		"run_id":   uuid.NewString(),
		"op":       "analyze_log_file",
		"selector": selector,
	})
	logger.Debug("starting analysis")

	res, err := s.analyzer.Analyze(ctx, analyze.Request{
		Selector:       selector,
		SeverityFilter: req.SeverityFilter,
		StartTime:      start,
		EndTime:        end,
	})
	if err != nil {
		logger.WithError(err).Warn("analysis failed")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"files":   res.Summary.TotalFilesAnalyzed,
		"entries": res.Summary.TotalEntriesAnalyzed,
	}).Info("analysis complete")
	return res, nil
}

// AnalyzeLogPatterns runs the pattern aggregation operation.
func (s *Service) AnalyzeLogPatterns(ctx context.Context, req model.PatternRequest) (*model.PatternReport, error) {
	selector := strings.TrimSpace(req.Selector)
	if selector == "" {
		return nil, model.ErrNoSelector
	}

	logger := s.log.WithFields(logrus.Fields{
		"run_id":   uuid.NewString(),
		"op":       "analyze_log_patterns",
		"selector": selector,
	})
	logger.Debug("starting pattern analysis")

	rep, err := s.patterns.Analyze(ctx, patterns.Request{
		Selector:     selector,
		MinFrequency: req.MinFrequency,
		MaxPatterns:  req.MaxPatterns,
	})
	if err != nil {
		logger.WithError(err).Warn("pattern analysis failed")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"files":    rep.Summary.TotalFilesAnalyzed,
		"messages": rep.Summary.TotalMessagesAnalyzed,
		"patterns": rep.Summary.UniquePatterns,
	}).Info("pattern analysis complete")
	return rep, nil
}

func parseTime(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("invalid %s: %q", name, value)
}
