package patterns

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinytelemetry/logscope/internal/model"
	"github.com/tinytelemetry/logscope/internal/normalize"
	"github.com/tinytelemetry/logscope/internal/resolver"
)

func logLine(sec int, thread, marker, message string) string {
	return fmt.Sprintf("10/15/2025 08:%02d:%02d.000 (%s) %s (%s,Test.Module)",
		sec/60, sec%60, thread, message, marker)
}

func writeLog(t *testing.T, dir, name string, lines []string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newAnalyzer(dir string) *Analyzer {
	return New(resolver.New(dir))
}

func TestAnalyze_GroupsByNormalizedShape(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "app.log", []string{
		logLine(1, "t1", "E", "Connection failed to server 192.168.1.100:8080"),
		logLine(2, "t2", "E", "Connection failed to server 10.0.0.5:443"),
		logLine(3, "t1", "I", "heartbeat ok"),
	})

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{Selector: "app.log", MinFrequency: 1})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Patterns) != 2 {
		t.Fatalf("patterns = %d, want 2", len(rep.Patterns))
	}
	top := rep.Patterns[0]
	if top.Pattern != "Connection failed to server <IP:PORT>" {
		t.Errorf("top pattern = %q", top.Pattern)
	}
	if top.Count != 2 {
		t.Errorf("count = %d, want 2", top.Count)
	}
	if top.UniqueThreads != 2 {
		t.Errorf("unique threads = %d, want 2", top.UniqueThreads)
	}
	if top.SeverityCounts["ERROR"] != 2 {
		t.Errorf("severity counts = %v", top.SeverityCounts)
	}
	if len(top.Examples) != 2 || top.Examples[0] != "Connection failed to server 192.168.1.100:8080" {
		t.Errorf("examples = %v", top.Examples)
	}
}

func TestAnalyze_MinFrequencyAndMaxPatterns(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	// Shapes with frequencies 5, 3, 2, 1.
	for i := 0; i < 5; i++ {
		lines = append(lines, logLine(i, "t", "I", fmt.Sprintf("alpha event %d done", i)))
	}
	for i := 0; i < 3; i++ {
		lines = append(lines, logLine(10+i, "t", "I", fmt.Sprintf("beta event %d done", i)))
	}
	for i := 0; i < 2; i++ {
		lines = append(lines, logLine(20+i, "t", "I", fmt.Sprintf("gamma event %d done", i)))
	}
	lines = append(lines, logLine(30, "t", "I", "delta event 1 done"))
	writeLog(t, dir, "app.log", lines)

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{
		Selector:     "app.log",
		MinFrequency: 2,
		MaxPatterns:  2,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Patterns) != 2 {
		t.Fatalf("patterns = %d, want 2 (max_patterns)", len(rep.Patterns))
	}
	if rep.Patterns[0].Count != 5 || rep.Patterns[1].Count != 3 {
		t.Errorf("ranked counts = %d, %d; want 5, 3", rep.Patterns[0].Count, rep.Patterns[1].Count)
	}
	for _, p := range rep.Patterns {
		if p.Count < 2 {
			t.Errorf("pattern %q below min frequency: %d", p.Pattern, p.Count)
		}
	}
	if rep.Summary.UniquePatterns != 4 {
		t.Errorf("unique patterns = %d, want 4", rep.Summary.UniquePatterns)
	}
	if rep.Summary.TotalMessagesAnalyzed != 11 {
		t.Errorf("total messages = %d, want 11", rep.Summary.TotalMessagesAnalyzed)
	}
	if rep.Summary.PatternsShown != 2 || rep.Summary.MinFrequencyThreshold != 2 {
		t.Errorf("summary = %+v", rep.Summary)
	}
}

func TestAnalyze_TieBreakIsFirstSeenOrder(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "app.log", []string{
		logLine(1, "t", "I", "first shape A"),
		logLine(2, "t", "I", "second shape B"),
		logLine(3, "t", "I", "first shape A"),
		logLine(4, "t", "I", "second shape B"),
	})

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{Selector: "app.log", MinFrequency: 1})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Patterns) != 2 {
		t.Fatalf("patterns = %d, want 2", len(rep.Patterns))
	}
	if rep.Patterns[0].Pattern != "first shape A" || rep.Patterns[1].Pattern != "second shape B" {
		t.Errorf("tie order = %q, %q", rep.Patterns[0].Pattern, rep.Patterns[1].Pattern)
	}
}

func TestAnalyze_Percentage(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 0; i < 2; i++ {
		lines = append(lines, logLine(i, "t", "I", "repeat me"))
	}
	lines = append(lines, logLine(10, "t", "I", "unique one"))
	writeLog(t, dir, "app.log", lines)

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{Selector: "app.log"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Patterns) != 1 {
		t.Fatalf("patterns = %d, want 1", len(rep.Patterns))
	}
	// 2 of 3 processed messages: 66.67 after rounding to 2 decimals.
	if rep.Patterns[0].Percentage != 66.67 {
		t.Errorf("percentage = %v, want 66.67", rep.Patterns[0].Percentage)
	}
}

func TestAnalyze_FirstLastSeenOutOfOrder(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "app.log", []string{
		logLine(30, "t", "I", "same shape"),
		logLine(5, "t", "I", "same shape"),
		logLine(50, "t", "I", "same shape"),
		logLine(10, "t", "I", "same shape"),
	})

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{Selector: "app.log"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Patterns) != 1 {
		t.Fatalf("patterns = %d, want 1", len(rep.Patterns))
	}
	p := rep.Patterns[0]
	if p.FirstSeen != "2025-10-15T08:00:05.000" {
		t.Errorf("first seen = %q", p.FirstSeen)
	}
	if p.LastSeen != "2025-10-15T08:00:50.000" {
		t.Errorf("last seen = %q", p.LastSeen)
	}
	if p.FirstSeen > p.LastSeen {
		t.Errorf("first_seen %q after last_seen %q", p.FirstSeen, p.LastSeen)
	}
}

func TestAnalyze_ExamplesNeverEvicted(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, logLine(i, "t", "I", fmt.Sprintf("request %d handled", i)))
	}
	writeLog(t, dir, "app.log", lines)

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{Selector: "app.log"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Patterns) != 1 {
		t.Fatalf("patterns = %d, want 1", len(rep.Patterns))
	}
	want := []string{"request 0 handled", "request 1 handled", "request 2 handled"}
	got := rep.Patterns[0].Examples
	if len(got) != len(want) {
		t.Fatalf("examples = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("example[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAnalyze_ProcessCap(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 0; i < 10050; i++ {
		lines = append(lines, logLine(i%3600, "t", "I", "steady state"))
	}
	writeLog(t, dir, "huge.log", lines)

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{Selector: "huge.log"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rep.Summary.TotalMessagesAnalyzed != 10000 {
		t.Errorf("total messages = %d, want 10000 (process cap)", rep.Summary.TotalMessagesAnalyzed)
	}
}

func TestAnalyze_SummarySeverities(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "app.log", []string{
		logLine(1, "t", "I", "a 1"),
		logLine(2, "t", "I", "a 2"),
		logLine(3, "t", "I", "a 3"),
		logLine(4, "t", "E", "b 1"),
		logLine(5, "t", "E", "b 2"),
		logLine(6, "t", "W", "c 1"),
		logLine(7, "t", "D", "d 1"),
	})

	rep, err := newAnalyzer(dir).Analyze(context.Background(), Request{Selector: "app.log"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rep.Summary.SeverityDistribution["INFO"] != 3 || rep.Summary.SeverityDistribution["ERROR"] != 2 {
		t.Errorf("severity distribution = %v", rep.Summary.SeverityDistribution)
	}
	top := rep.Summary.TopSeverities
	if len(top) != 3 || top[0] != "INFO" || top[1] != "ERROR" {
		t.Errorf("top severities = %v", top)
	}
}

func TestAnalyze_CustomKeyFunc(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "app.log", []string{
		logLine(1, "t", "I", "token tok_abc issued"),
		logLine(2, "t", "I", "token tok_xyz issued"),
	})

	rules, err := normalize.LoadRulesFromBytes([]byte("rules:\n  - pattern: 'tok_[a-z]+'\n    replace: '<TOKEN>'\n"))
	if err != nil {
		t.Fatalf("LoadRulesFromBytes: %v", err)
	}
	n := normalize.NewNormalizer(rules)

	rep, err := NewWithKeyFunc(resolver.New(dir), n.Normalize).
		Analyze(context.Background(), Request{Selector: "app.log"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(rep.Patterns) != 1 || rep.Patterns[0].Pattern != "token <TOKEN> issued" {
		t.Errorf("patterns = %+v", rep.Patterns)
	}
}

func TestAnalyze_NoFiles(t *testing.T) {
	_, err := newAnalyzer(t.TempDir()).Analyze(context.Background(), Request{Selector: "NOPE_*.LOG"})

	var noFiles *model.NoFilesError
	if !errors.As(err, &noFiles) {
		t.Fatalf("err = %v, want *model.NoFilesError", err)
	}
}
