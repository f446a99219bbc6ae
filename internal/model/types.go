package model

import "time"

// LogRecord represents a single parsed log line used across the system.
// It is the canonical type the analysis engines and the RPC surface share.
type LogRecord struct {
	Timestamp  time.Time
	ThreadID   string
	Severity   string // INFO/DEBUG/WARNING/ERROR/FATAL
	Message    string
	LineNumber int    // 1-based position in the source file
	File       string // base name of the source file
}

// Entry is one log record as it appears in an analysis result.
type Entry struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Timestamp string `json:"timestamp"`
	ThreadID  string `json:"thread_id"`
	Severity  string `json:"severity,omitempty"`
	Message   string `json:"message"`
}

// TimeRange is the observed min/max timestamp over a set of entries.
type TimeRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// AnalysisSummary carries the aggregate counters of one analysis run.
type AnalysisSummary struct {
	TotalFilesAnalyzed   int            `json:"total_files_analyzed"`
	TotalEntriesAnalyzed int            `json:"total_entries_analyzed"`
	TotalErrors          int            `json:"total_errors"`
	TotalWarnings        int            `json:"total_warnings"`
	SeverityCounts       map[string]int `json:"severity_counts"`
	TimeRange            TimeRange      `json:"time_range"`
	EntriesShown         int            `json:"entries_shown"`
}

// AnalysisResult is the full output of one analyze-log-file call.
type AnalysisResult struct {
	FilesAnalyzed []string        `json:"files_analyzed"`
	Selector      string          `json:"selector"`
	Entries       []Entry         `json:"entries"`
	Errors        []Entry         `json:"errors"`
	Warnings      []Entry         `json:"warnings"`
	Summary       AnalysisSummary `json:"summary"`
}

// PatternStat is one ranked message pattern with its aggregate statistics.
type PatternStat struct {
	Pattern        string         `json:"pattern"`
	Count          int            `json:"count"`
	Percentage     float64        `json:"percentage"`
	Examples       []string       `json:"examples"`
	SeverityCounts map[string]int `json:"severity_counts"`
	UniqueThreads  int            `json:"unique_threads"`
	FirstSeen      string         `json:"first_seen,omitempty"`
	LastSeen       string         `json:"last_seen,omitempty"`
}

// PatternSummary carries the aggregate counters of one pattern-analysis run.
type PatternSummary struct {
	TotalFilesAnalyzed    int            `json:"total_files_analyzed"`
	TotalMessagesAnalyzed int            `json:"total_messages_analyzed"`
	UniquePatterns        int            `json:"unique_patterns"`
	PatternsShown         int            `json:"patterns_shown"`
	MinFrequencyThreshold int            `json:"min_frequency_threshold"`
	SeverityDistribution  map[string]int `json:"severity_distribution"`
	TopSeverities         []string       `json:"top_severities"`
}

// PatternReport is the full output of one analyze-log-patterns call.
type PatternReport struct {
	FilesAnalyzed []string       `json:"files_analyzed"`
	Selector      string         `json:"selector"`
	Patterns      []PatternStat  `json:"patterns"`
	Summary       PatternSummary `json:"summary"`
}
