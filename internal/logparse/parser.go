// Package logparse converts raw log lines into structured records.
//
// The grammar is fixed:
//
//	MM/DD/YYYY HH:MM:SS.mmm (THREADID) Message(X,module)(Z,metadata)
//
// where the trailing (X,...) severity marker (X one of I D W E F) and the
// (Z,...) metadata group are both optional. Lines that do not match produce
// no record; that is a normal outcome, not an error.
package logparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/tinytelemetry/logscope/internal/model"
)

// LineRegex matches one log line. Group 1 is the timestamp, group 2 the
// thread id, group 3 the message and group 4 the optional severity marker.
// A trailing marker letter outside {I,D,W,E,F} is not a severity group at
// all; it stays part of the message and the record defaults to INFO.
var LineRegex = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}:\d{2}\.\d{3})\s+\((\w+)\)\s+(.+?)(?:\(([IDWEF]),.*?\))?(?:\(Z,.*?\))?$`)

// timestampLayout matches the grammar's 24-hour, millisecond-precision form.
const timestampLayout = "01/02/2006 15:04:05.000"

// ParseLine parses one raw line into a LogRecord. It returns nil when the
// line is not a log line: empty lines, '&'-prefixed header lines,
// "Version "-prefixed metadata lines, and anything failing the grammar.
func ParseLine(line string, num int) *model.LogRecord {
	if line == "" || strings.HasPrefix(line, "&") || strings.HasPrefix(line, "Version ") {
		return nil
	}

	m := LineRegex.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	ts, err := ParseTimestamp(m[1])
	if err != nil {
		// The regex admits impossible dates (month 13, hour 25); those
		// lines are treated the same as any other unparsable line.
		return nil
	}

	severity := model.SeverityInfo
	if m[4] != "" {
		severity = model.SeverityFromMarker(m[4][0])
	}

	return &model.LogRecord{
		Timestamp:  ts,
		ThreadID:   m[2],
		Severity:   severity,
		Message:    strings.TrimSpace(m[3]),
		LineNumber: num,
	}
}

// ParseTimestamp parses the grammar's MM/DD/YYYY HH:MM:SS.mmm form. Runs of
// whitespace between date and time collapse to a single space first, since
// the line grammar admits them.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, strings.Join(strings.Fields(s), " "))
}
