// Package patterns implements the pattern aggregation engine: it clusters
// log messages by their normalized shape and emits a frequency-ranked,
// threshold-filtered report.
package patterns

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/tinytelemetry/logscope/internal/logsource"
	"github.com/tinytelemetry/logscope/internal/model"
	"github.com/tinytelemetry/logscope/internal/normalize"
	"github.com/tinytelemetry/logscope/internal/resolver"
)

const (
	// processCap stops the scan once this many matched records have been
	// processed, across all files. Unlike the analysis engine's cap this
	// counts processed records, not emitted entries.
	processCap = 10000
	// maxExamples bounds the example messages kept per pattern. Examples
	// are first-seen and never evicted.
	maxExamples = 3
	// topSeverities is how many severities the summary ranks.
	topSeverities = 3

	// DefaultMinFrequency is the reporting threshold when the request
	// leaves it unset.
	DefaultMinFrequency = 2
	// DefaultMaxPatterns is the report size cap when the request leaves
	// it unset.
	DefaultMaxPatterns = 10
)

// Request holds the parameters of one pattern analysis run.
type Request struct {
	Selector     string
	MinFrequency int
	MaxPatterns  int
}

// aggregate is the running state for one pattern key. It lives for the
// duration of a single Analyze call.
type aggregate struct {
	key            string
	count          int
	examples       []string
	firstSeen      time.Time
	lastSeen       time.Time
	severityCounts map[string]int
	threadIDs      map[string]struct{}
	order          int // arrival order of the key, for deterministic ties
}

// KeyFunc derives a pattern key from a message.
type KeyFunc func(string) string

// Analyzer aggregates message patterns across files named by a selector.
type Analyzer struct {
	resolver *resolver.Resolver
	key      KeyFunc
}

// New creates an Analyzer using the built-in normalization passes.
func New(r *resolver.Resolver) *Analyzer {
	return NewWithKeyFunc(r, normalize.Normalize)
}

// NewWithKeyFunc creates an Analyzer with a custom key derivation, for
// deployments that layer extra normalization rules on the built-ins.
func NewWithKeyFunc(r *resolver.Resolver, key KeyFunc) *Analyzer {
	return &Analyzer{resolver: r, key: key}
}

// Analyze resolves the selector, normalizes every matched record's message
// into a pattern key and accumulates per-key statistics. Patterns with
// count >= MinFrequency are ranked by descending count (ties break on
// first-seen order) and truncated to MaxPatterns. Percentages are taken
// against all processed records, not only reported ones.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.PatternReport, error) {
	if req.MinFrequency <= 0 {
		req.MinFrequency = DefaultMinFrequency
	}
	if req.MaxPatterns <= 0 {
		req.MaxPatterns = DefaultMaxPatterns
	}

	files, err := a.resolver.Resolve(req.Selector)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &model.NoFilesError{Selector: req.Selector}
	}

	aggregates := make(map[string]*aggregate)
	severityDist := make(map[string]int)
	total := 0

	for _, path := range files {
		err := logsource.EachRecord(ctx, path, func(rec *model.LogRecord) bool {
			total++
			severityDist[rec.Severity]++

			key := a.key(rec.Message)
			agg, ok := aggregates[key]
			if !ok {
				agg = &aggregate{
					key:            key,
					firstSeen:      rec.Timestamp,
					lastSeen:       rec.Timestamp,
					severityCounts: make(map[string]int),
					threadIDs:      make(map[string]struct{}),
					order:          len(aggregates),
				}
				aggregates[key] = agg
			}
			agg.update(rec)

			return total < processCap
		})
		if err != nil {
			return nil, err
		}
		if total >= processCap {
			break
		}
	}

	ranked := rank(aggregates, req.MinFrequency, req.MaxPatterns)

	stats := make([]model.PatternStat, 0, len(ranked))
	for _, agg := range ranked {
		stats = append(stats, agg.stat(total))
	}

	return &model.PatternReport{
		FilesAnalyzed: files,
		Selector:      req.Selector,
		Patterns:      stats,
		Summary: model.PatternSummary{
			TotalFilesAnalyzed:    len(files),
			TotalMessagesAnalyzed: total,
			UniquePatterns:        len(aggregates),
			PatternsShown:         len(stats),
			MinFrequencyThreshold: req.MinFrequency,
			SeverityDistribution:  severityDist,
			TopSeverities:         rankSeverities(severityDist),
		},
	}, nil
}

// update folds one record into the aggregate. Timestamps need not arrive in
// order, so both bounds move by min/max.
func (g *aggregate) update(rec *model.LogRecord) {
	g.count++
	if rec.Timestamp.Before(g.firstSeen) {
		g.firstSeen = rec.Timestamp
	}
	if rec.Timestamp.After(g.lastSeen) {
		g.lastSeen = rec.Timestamp
	}
	g.severityCounts[rec.Severity]++
	g.threadIDs[rec.ThreadID] = struct{}{}
	if len(g.examples) < maxExamples {
		g.examples = append(g.examples, rec.Message)
	}
}

func (g *aggregate) stat(total int) model.PatternStat {
	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(g.count)/float64(total)*100*100) / 100
	}
	return model.PatternStat{
		Pattern:        g.key,
		Count:          g.count,
		Percentage:     pct,
		Examples:       g.examples,
		SeverityCounts: g.severityCounts,
		UniqueThreads:  len(g.threadIDs),
		FirstSeen:      g.firstSeen.Format(model.TimestampLayout),
		LastSeen:       g.lastSeen.Format(model.TimestampLayout),
	}
}

func rank(aggregates map[string]*aggregate, minFrequency, maxPatterns int) []*aggregate {
	filtered := make([]*aggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.count >= minFrequency {
			filtered = append(filtered, agg)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].count != filtered[j].count {
			return filtered[i].count > filtered[j].count
		}
		return filtered[i].order < filtered[j].order
	})

	if len(filtered) > maxPatterns {
		filtered = filtered[:maxPatterns]
	}
	return filtered
}

// rankSeverities returns up to three severities by descending occurrence,
// ties broken by name for determinism.
func rankSeverities(dist map[string]int) []string {
	names := make([]string, 0, len(dist))
	for sev := range dist {
		names = append(names, sev)
	}
	sort.Slice(names, func(i, j int) bool {
		if dist[names[i]] != dist[names[j]] {
			return dist[names[i]] > dist[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topSeverities {
		names = names[:topSeverities]
	}
	return names
}
