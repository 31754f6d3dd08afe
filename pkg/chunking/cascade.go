package chunking

import (
	"fmt"
	"log/slog"
)

// Fallback levels, in retry order.
const (
	LevelPrimary    = "primary"
	LevelStructural = "structural"
	LevelUniversal  = "universal"
)

// cascade retries chunking across strategies when one fails. A strategy
// run fails on a returned error or an empty chunk list; every transition
// is a warning, never an error, so the engine cannot raise for any
// non-empty input.
type cascade struct {
	log *slog.Logger
}

type cascadeOutcome struct {
	chunks       []Chunk
	strategyUsed string
	level        string
	warnings     []string
}

func (c cascade) run(primary Strategy, blocks []Block, cfg Config) (cascadeOutcome, error) {
	out := cascadeOutcome{strategyUsed: primary.Name(), level: LevelPrimary}

	chunks, err := safeApply(primary, blocks, cfg)
	if err == nil {
		out.chunks = chunks
		return out, nil
	}
	if !cfg.FallbackEnabled {
		return out, fmt.Errorf("strategy %s failed with fallback disabled: %w", primary.Name(), err)
	}
	out.warnings = append(out.warnings, fmt.Sprintf("strategy %s failed: %v", primary.Name(), err))
	c.log.Warn("strategy failed, falling back", "strategy", primary.Name(), "error", err)

	if primary.Name() != StrategyStructural {
		out.strategyUsed = StrategyStructural
		out.level = LevelStructural
		chunks, err = safeApply(structuralStrategy{}, blocks, cfg)
		if err == nil {
			out.chunks = chunks
			return out, nil
		}
		out.warnings = append(out.warnings, fmt.Sprintf("structural fallback failed: %v", err))
		c.log.Warn("structural fallback failed", "error", err)
	}

	out.strategyUsed = StrategyUniversal
	out.level = LevelUniversal
	chunks, err = safeApply(universalStrategy{}, blocks, cfg)
	if err != nil {
		// Universal accepts any input; reaching this is a defect.
		return out, fmt.Errorf("%w: %v", ErrSelectionExhausted, err)
	}
	out.chunks = chunks
	return out, nil
}

// safeApply runs a strategy, converting a panic into a strategy error
// and treating an empty result as failure.
func safeApply(s Strategy, blocks []Block, cfg Config) (chunks []Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			chunks = nil
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()

	chunks, err = s.Apply(blocks, cfg)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}
