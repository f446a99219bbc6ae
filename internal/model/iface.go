package model

import "context"

// AnalyzeRequest holds the arguments of one analyze-log-file call.
// StartTime and EndTime are optional ISO-8601 strings; both bounds are inclusive.
type AnalyzeRequest struct {
	Selector       string `json:"selector"`
	SeverityFilter string `json:"severity_filter,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
}

// PatternRequest holds the arguments of one analyze-log-patterns call.
// Zero values for MinFrequency and MaxPatterns select the defaults (2 and 10).
type PatternRequest struct {
	Selector     string `json:"selector"`
	MinFrequency int    `json:"min_frequency,omitempty"`
	MaxPatterns  int    `json:"max_patterns,omitempty"`
}

// LogAnalyzer is the operation surface exposed by the read transports
// (HTTP API and socket RPC).
type LogAnalyzer interface {
	AnalyzeLogFile(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
	AnalyzeLogPatterns(ctx context.Context, req PatternRequest) (*PatternReport, error)
}
