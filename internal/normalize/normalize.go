// Package normalize derives canonical pattern keys from log messages by
// substituting variable spans (numbers, addresses, identifiers, paths) with
// placeholders. Two messages share a pattern key iff their normalized forms
// are textually equal.
package normalize

import "regexp"

// Rule is one substitution pass: every match of Regex is replaced by Replace.
type Rule struct {
	Regex   *regexp.Regexp
	Replace string
}

// builtin is the ordered substitution table. Structured tokens (hex, UUIDs,
// addresses, timestamps, paths) must be replaced before the generic integer
// pass, otherwise that pass fragments them into dangling <NUM> placeholders
// (an IP would become <NUM>.<NUM>.<NUM>.<NUM> and never match again).
// Placeholders contain no digits, so no pass re-matches an earlier pass's
// output and normalization is idempotent.
var builtin = []Rule{
	{regexp.MustCompile(`0x[0-9a-fA-F]+`), "<HEX>"},
	{regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`), "<UUID>"},
	{regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}:\d+\b`), "<IP:PORT>"},
	{regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`), "<IP>"},
	{regexp.MustCompile(`\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}:\d{2}`), "<TIMESTAMP>"},
	{regexp.MustCompile(`[A-Za-z]:\\[\w\\.]+`), "<PATH>"},

	// Domain idioms where the prefix must survive verbatim.
	{regexp.MustCompile(`ReqID:\d+`), "ReqID:<NUM>"},
	{regexp.MustCompile(`duration of \d+`), "duration of <NUM>"},
	{regexp.MustCompile(`v:\d+`), "v:<NUM>"},
	{regexp.MustCompile(`l:\d+`), "l:<NUM>"},

	// Generic standalone integers, last.
	{regexp.MustCompile(`\b\d+\b`), "<NUM>"},
}

// Normalize maps a message to its canonical pattern key using the built-in
// substitution passes. Pure and deterministic.
func Normalize(message string) string {
	for _, r := range builtin {
		message = r.Regex.ReplaceAllString(message, r.Replace)
	}
	return message
}

// Normalizer applies the built-in passes followed by optional user-defined
// rules (see LoadRules). User rules never reorder or replace the built-ins.
type Normalizer struct {
	extra []Rule
}

// NewNormalizer creates a Normalizer with optional extra substitution rules.
func NewNormalizer(extra []Rule) *Normalizer {
	return &Normalizer{extra: extra}
}

// Normalize maps a message to its canonical pattern key.
func (n *Normalizer) Normalize(message string) string {
	message = Normalize(message)
	for _, r := range n.extra {
		message = r.Regex.ReplaceAllString(message, r.Replace)
	}
	return message
}
