// Command logscope-cli invokes the analysis operations of a running
// logscope server over its Unix socket and prints the JSON result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tinytelemetry/logscope/internal/model"
	"github.com/tinytelemetry/logscope/internal/socketrpc"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  logscope-cli analyze  <selector> [-severity LEVEL] [-start TIME] [-end TIME] [-socket PATH]
  logscope-cli patterns <selector> [-min-frequency N] [-max-patterns N] [-socket PATH]
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 3 {
		usage()
	}
	command := os.Args[1]
	selector := os.Args[2]

	switch command {
	case "analyze":
		fs := flag.NewFlagSet("analyze", flag.ExitOnError)
		severity := fs.String("severity", "", "filter by severity (INFO, DEBUG, WARNING, ERROR, FATAL)")
		start := fs.String("start", "", "inclusive start time (ISO-8601)")
		end := fs.String("end", "", "inclusive end time (ISO-8601)")
		socket := fs.String("socket", socketrpc.DefaultSocketPath(), "server socket path")
		fs.Parse(os.Args[3:])

		run(*socket, func(ctx context.Context, c *socketrpc.Client) (interface{}, error) {
			return c.AnalyzeLogFile(ctx, model.AnalyzeRequest{
				Selector:       selector,
				SeverityFilter: *severity,
				StartTime:      *start,
				EndTime:        *end,
			})
		})

	case "patterns":
		fs := flag.NewFlagSet("patterns", flag.ExitOnError)
		minFreq := fs.Int("min-frequency", 0, "minimum occurrences for a pattern to be reported")
		maxPatterns := fs.Int("max-patterns", 0, "maximum number of patterns to return")
		socket := fs.String("socket", socketrpc.DefaultSocketPath(), "server socket path")
		fs.Parse(os.Args[3:])

		run(*socket, func(ctx context.Context, c *socketrpc.Client) (interface{}, error) {
			return c.AnalyzeLogPatterns(ctx, model.PatternRequest{
				Selector:     selector,
				MinFrequency: *minFreq,
				MaxPatterns:  *maxPatterns,
			})
		})

	default:
		usage()
	}
}

func run(socket string, op func(context.Context, *socketrpc.Client) (interface{}, error)) {
	client, err := socketrpc.Dial(socket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	result, err := op(context.Background(), client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
