package model

// Severity levels recognized by the log grammar.
const (
	SeverityInfo    = "INFO"
	SeverityDebug   = "DEBUG"
	SeverityWarning = "WARNING"
	SeverityError   = "ERROR"
	SeverityFatal   = "FATAL"
)

// TimestampLayout is the wire format for timestamps in results.
// Millisecond precision, matching the source log grammar.
const TimestampLayout = "2006-01-02T15:04:05.000"

// SeverityFromMarker maps a single-letter severity marker to its full name.
// Unknown or absent markers default to INFO, matching the log grammar where
// only I, D, W, E and F are recognized in the trailing marker position.
func SeverityFromMarker(marker byte) string {
	switch marker {
	case 'I':
		return SeverityInfo
	case 'D':
		return SeverityDebug
	case 'W':
		return SeverityWarning
	case 'E':
		return SeverityError
	case 'F':
		return SeverityFatal
	default:
		return SeverityInfo
	}
}
