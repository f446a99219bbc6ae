package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.LogAnalyzer over a Unix domain socket.
// Each method maps 1:1 to the LogAnalyzer interface.
//
//   Method                 Params                                                Result
//   ───────────────────    ──────────────────────────────────────────────────    ──────────────
//   AnalyzeLogFile         {selector, severity_filter?, start_time?, end_time?}  AnalysisResult
//   AnalyzeLogPatterns     {selector, min_frequency?, max_patterns?}             PatternReport
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params (including a missing selector)
//   -32603  Internal error (marshal failure)
//   -32000  Application error (no files matched, read failure)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/logscope/logscope.sock, falling back to
// ~/.local/state/logscope/logscope.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "logscope", "logscope.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/logscope.sock"
	}
	return filepath.Join(home, ".local", "state", "logscope", "logscope.sock")
}
