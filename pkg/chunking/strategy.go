package chunking

import "fmt"

// Strategy is one interchangeable chunking approach. The selector holds
// an ordered list of these and never special-cases a concrete type.
type Strategy interface {
	// Name is the identifier used in config overrides and metadata.
	Name() string
	// Priority orders strategies; lower means a stronger claim.
	Priority() int
	// CanHandle reports whether the strategy applies to the document.
	CanHandle(a Analysis, cfg Config) bool
	// Quality scores how well suited the strategy is, in [0,1].
	Quality(a Analysis) float64
	// Apply assembles chunks from the block sequence. A nil error with
	// zero chunks is treated as failure by the fallback cascade.
	Apply(blocks []Block, cfg Config) ([]Chunk, error)
}

// defaultRegistry returns the fixed, priority-ordered strategy set.
func defaultRegistry() []Strategy {
	return []Strategy{
		codeAwareStrategy{},
		listAwareStrategy{},
		structuralStrategy{},
		universalStrategy{},
	}
}

// selectStrategy resolves the strategy for a document. It is a pure
// function of (analysis, config): identical input always yields the
// identical choice.
func selectStrategy(registry []Strategy, a Analysis, cfg Config) (Strategy, error) {
	if cfg.StrategyOverride != "" {
		for _, s := range registry {
			if s.Name() == cfg.StrategyOverride {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.StrategyOverride)
	}

	switch cfg.SelectionMode {
	case SelectWeighted:
		var best Strategy
		bestScore := -1.0
		for _, s := range registry {
			if !s.CanHandle(a, cfg) {
				continue
			}
			score := 0.5*(1.0/float64(s.Priority())) + 0.5*s.Quality(a)
			// Ties break toward the stronger (lower) priority, which the
			// registry order already guarantees.
			if score > bestScore {
				best = s
				bestScore = score
			}
		}
		if best != nil {
			return best, nil
		}
	default: // strict
		for _, s := range registry {
			if s.CanHandle(a, cfg) {
				return s, nil
			}
		}
	}

	// The universal strategy accepts everything, so this is unreachable
	// unless the registry itself is broken.
	return nil, ErrSelectionExhausted
}
