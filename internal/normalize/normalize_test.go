package normalize

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare integer",
			input: "processed 42 items",
			want:  "processed <NUM> items",
		},
		{
			name:  "hex literal",
			input: "fault at 0xDEADBEEF",
			want:  "fault at <HEX>",
		},
		{
			name:  "uuid",
			input: "session 550e8400-e29b-41d4-a716-446655440000 expired",
			want:  "session <UUID> expired",
		},
		{
			name:  "uppercase uuid",
			input: "session 550E8400-E29B-41D4-A716-446655440000 expired",
			want:  "session <UUID> expired",
		},
		{
			name:  "ip with port",
			input: "Connection failed to server 192.168.1.100:8080",
			want:  "Connection failed to server <IP:PORT>",
		},
		{
			name:  "bare ip",
			input: "ping from 10.0.0.5 ok",
			want:  "ping from <IP> ok",
		},
		{
			name:  "embedded timestamp",
			input: "last sync 10/15/2025 08:30:00 complete",
			want:  "last sync <TIMESTAMP> complete",
		},
		{
			name:  "windows path",
			input: `wrote C:\logs\api\out.log today`,
			want:  "wrote <PATH> today",
		},
		{
			name:  "reqid idiom",
			input: "ReqID:99121 accepted",
			want:  "ReqID:<NUM> accepted",
		},
		{
			name:  "duration idiom",
			input: "GetComponentStatus method ran for a duration of 5 ms",
			want:  "GetComponentStatus method ran for a duration of <NUM> ms",
		},
		{
			name:  "version and length idioms",
			input: "payload v:3 l:128",
			want:  "payload v:<NUM> l:<NUM>",
		},
		{
			name:  "ip beside raw integer",
			input: "retry 3 against 192.168.1.100:8080",
			want:  "retry <NUM> against <IP:PORT>",
		},
		{
			name:  "no variable content",
			input: "cache flushed",
			want:  "cache flushed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Distinct messages with the same shape must share one key.
func TestNormalize_SharedKey(t *testing.T) {
	a := Normalize("Connection failed to server 192.168.1.100:8080")
	b := Normalize("Connection failed to server 10.0.0.5:443")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	if a != "Connection failed to server <IP:PORT>" {
		t.Errorf("key = %q, want %q", a, "Connection failed to server <IP:PORT>")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"processed 42 items",
		"Connection failed to server 192.168.1.100:8080",
		"session 550e8400-e29b-41d4-a716-446655440000 at 0xFF",
		"last sync 10/15/2025 08:30:00",
		`C:\logs\out.log ReqID:5 duration of 10 ms v:1 l:2`,
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// The port digits must fold into <IP:PORT>, never into a trailing <NUM>.
func TestNormalize_PortNotFragmented(t *testing.T) {
	got := Normalize("listening on 0.0.0.0:4000")
	if got != "listening on <IP:PORT>" {
		t.Errorf("got %q, want %q", got, "listening on <IP:PORT>")
	}
}

func TestNormalizer_ExtraRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	content := `rules:
  - name: session-token
    pattern: 'session=[A-Za-z0-9]+'
    replace: 'session=<TOKEN>'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	n := NewNormalizer(rules)

	got := n.Normalize("user 7 session=a1B2c3 active")
	want := "user <NUM> session=<TOKEN> active"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadRules_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad regex", "rules:\n  - pattern: '([unclosed'\n    replace: 'x'\n"},
		{"empty pattern", "rules:\n  - pattern: ''\n    replace: 'x'\n"},
		{"empty replace", "rules:\n  - pattern: 'abc'\n    replace: ''\n"},
		{"not yaml", "rules: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write rules: %v", err)
			}
			if _, err := LoadRules(path); err == nil {
				t.Error("LoadRules succeeded, want error")
			}
		})
	}
}
