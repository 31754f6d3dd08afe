// Package chunking segments structured Markdown text into bounded,
// semantically coherent chunks for retrieval and embedding use. It
// analyzes document composition, picks one of several packing
// strategies, preserves atomic blocks (code fences, tables, URL pools),
// attaches bounded neighbor context, and degrades gracefully through a
// fallback cascade so it never fails on any input.
package chunking

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Chunker is the engine facade: a pure, synchronous pipeline per
// document. It holds no mutable per-document state, so one Chunker may
// be shared across goroutines; the optional result cache is the only
// stateful element and is safe for concurrent use.
type Chunker struct {
	registry []Strategy
	log      *slog.Logger
	cache    *lru.Cache[string, *Result]
}

// New creates a Chunker. A nil logger falls back to slog.Default().
func New(log *slog.Logger) *Chunker {
	if log == nil {
		log = slog.Default()
	}
	return &Chunker{
		registry: defaultRegistry(),
		log:      log,
	}
}

// NewWithCache creates a Chunker with a bounded LRU result cache keyed
// by content and configuration hashes.
func NewWithCache(log *slog.Logger, capacity int) (*Chunker, error) {
	c := New(log)
	cache, err := lru.New[string, *Result](capacity)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

// Chunk segments text into bounded, semantically coherent chunks. It
// returns an error only for invalid configuration; strategy failures are
// absorbed by the fallback cascade and surface as warnings. Empty or
// whitespace-only input yields an empty result.
func (c *Chunker) Chunk(text string, cfg Config) (*Result, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return &Result{}, nil
	}

	key := ""
	if c.cache != nil {
		key = cacheKey(text, cfg)
		if res, ok := c.cache.Get(key); ok {
			return res, nil
		}
	}

	var res *Result
	if cfg.StreamingLineThreshold > 0 && lineCount(text) > cfg.StreamingLineThreshold {
		res, err = c.chunkWindowed(text, cfg)
	} else {
		res, err = c.chunkWhole(text, cfg)
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(key, res)
	}
	return res, nil
}

func (c *Chunker) chunkWhole(text string, cfg Config) (*Result, error) {
	out, err := c.chunkCore(text, cfg, 0)
	if err != nil {
		return nil, err
	}
	return c.finalize([]cascadeOutcome{out}, cfg), nil
}

// chunkWindowed processes oversized documents as sequential fixed-size
// line windows to cap peak memory. Window seams can introduce boundary
// artifacts; that is the documented trade for bounded memory.
func (c *Chunker) chunkWindowed(text string, cfg Config) (*Result, error) {
	lines := strings.Split(text, "\n")
	window := cfg.StreamingWindowLines

	var outcomes []cascadeOutcome
	for start := 0; start < len(lines); start += window {
		end := start + window
		if end > len(lines) {
			end = len(lines)
		}
		sub := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(sub) == "" {
			continue
		}
		out, err := c.chunkCore(sub, cfg, start)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, out)
	}
	return c.finalize(outcomes, cfg), nil
}

// chunkCore runs extraction, analysis, selection and the fallback
// cascade for one contiguous piece of text.
func (c *Chunker) chunkCore(text string, cfg Config, lineOffset int) (cascadeOutcome, error) {
	blocks := ExtractBlocks(text)
	if lineOffset > 0 {
		blocks = offsetBlocks(blocks, lineOffset)
	}

	analysis := Analyze(blocks)
	primary, err := selectStrategy(c.registry, analysis, cfg)
	if err != nil {
		return cascadeOutcome{}, err
	}

	return cascade{log: c.log}.run(primary, blocks, cfg)
}

// finalize stamps metadata, applies the overlap pass over the complete
// chunk list and assembles the result.
func (c *Chunker) finalize(outcomes []cascadeOutcome, cfg Config) *Result {
	res := &Result{}
	var chunks []Chunk

	for oi, out := range outcomes {
		if oi == 0 {
			res.StrategyUsed = out.strategyUsed
		}
		if out.level != LevelPrimary {
			res.FallbackUsed = true
			res.FallbackLevel = out.level
		}
		res.Warnings = append(res.Warnings, out.warnings...)

		for _, ch := range out.chunks {
			ch.Metadata.Strategy = out.strategyUsed
			ch.Metadata.HeaderPath = ch.headerPath
			if out.level != LevelPrimary {
				ch.Metadata.FallbackUsed = true
				ch.Metadata.FallbackLevel = out.level
			}
			chunks = append(chunks, ch)
		}
	}

	chunks = applyOverlap(chunks, cfg)
	for i := range chunks {
		chunks[i].Metadata.ChunkIndex = i
	}
	res.Chunks = chunks
	return res
}

func offsetBlocks(blocks []Block, lineOffset int) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b.StartLine += lineOffset
		b.EndLine += lineOffset
		out[i] = b
	}
	return out
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

// cacheKey derives the result-cache key from content and configuration
// hashes; any config change invalidates the entry.
func cacheKey(text string, cfg Config) string {
	th := sha256.Sum256([]byte(text))
	ch := sha256.Sum256([]byte(fmt.Sprintf("%+v", cfg)))
	return fmt.Sprintf("%x:%x", th[:8], ch[:8])
}
