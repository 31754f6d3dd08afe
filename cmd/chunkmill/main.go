// Command chunkmill chunks a Markdown document (or any supported file
// format) from the command line and prints the result as JSON.
//
// Usage:
//
//	chunkmill [flags] [file]
//
// With no file argument, Markdown is read from stdin.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chunkmill/chunkmill/internal/parser"
	"github.com/chunkmill/chunkmill/pkg/chunking"
)

func main() {
	var (
		maxSize   = flag.Int("max", 1500, "maximum chunk size in characters")
		minSize   = flag.Int("min", 100, "minimum chunk size in characters")
		overlap   = flag.Int("overlap", 200, "overlap context size in characters")
		strategy  = flag.String("strategy", "auto", "chunking strategy (auto, code_aware, list_aware, structural, universal)")
		mode      = flag.String("mode", "strict", "strategy selection mode (strict, weighted)")
		legacy    = flag.Bool("legacy-overlap", false, "merge overlap into chunk content instead of metadata")
		pretty    = flag.Bool("pretty", false, "indent JSON output")
		coresOnly = flag.Bool("cores", false, "print chunk cores as plain text instead of JSON")
		verbose   = flag.Bool("v", false, "log engine decisions to stderr")
	)
	flag.Parse()

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	text, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "chunkmill:", err)
		os.Exit(1)
	}

	cfg := chunking.DefaultConfig()
	cfg.MaxChunkSize = *maxSize
	cfg.MinChunkSize = *minSize
	cfg.OverlapSize = *overlap
	cfg.SelectionMode = chunking.SelectionMode(*mode)
	cfg.OverlapMetadataMode = !*legacy
	if *strategy != "" && *strategy != chunking.StrategyAuto {
		cfg.StrategyOverride = *strategy
	}

	res, err := chunking.New(log).Chunk(text, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "chunkmill:", err)
		os.Exit(1)
	}

	if *coresOnly {
		for i, c := range res.Chunks {
			if i > 0 {
				fmt.Println("\n---")
			}
			fmt.Println(c.Core())
		}
		return
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		fmt.Fprintln(os.Stderr, "chunkmill:", err)
		os.Exit(1)
	}
}

// readInput returns Markdown text from a file argument or stdin. Files
// in non-Markdown formats go through the matching parser first.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	p, err := parser.ForFile(path)
	if err != nil {
		return "", err
	}
	doc, err := p.Parse(f, path)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Markdown(), nil
}
