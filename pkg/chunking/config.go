package chunking

import "fmt"

// SelectionMode controls how the selector resolves multiple applicable
// strategies into one choice.
type SelectionMode string

const (
	// SelectStrict returns the first applicable strategy in priority order.
	SelectStrict SelectionMode = "strict"
	// SelectWeighted scores every applicable strategy as
	// 0.5*(1/priority) + 0.5*quality and returns the arg-max.
	SelectWeighted SelectionMode = "weighted"
)

// Config controls chunking behavior. It is passed by value into every
// call; the engine holds no process-wide mutable settings. Sizes are in
// characters. Zero numeric fields are replaced with defaults;
// contradictory combinations raise ErrInvalidConfig.
type Config struct {
	MaxChunkSize int `json:"max_chunk_size"`
	MinChunkSize int `json:"min_chunk_size"`

	OverlapSize       int     `json:"overlap_size"`
	OverlapPercentage float64 `json:"overlap_percentage"`
	// OverlapMetadataMode attaches neighbor context to chunk metadata;
	// when false the legacy merged-content mode is used.
	OverlapMetadataMode bool `json:"overlap_metadata_mode"`
	// SectionIsolation suppresses neighbor context across different
	// top-level header sections.
	SectionIsolation bool `json:"section_isolation"`

	PreserveAtomicBlocks bool `json:"preserve_atomic_blocks"`
	ExtractPreamble      bool `json:"extract_preamble"`
	// OversizeTolerance lets a just-over-budget section stay whole
	// instead of forcing a near-empty trailing chunk.
	OversizeTolerance float64 `json:"oversize_tolerance"`
	// IntroBindingGap is the maximum line gap at which a paragraph is
	// bound to the list or table it introduces.
	IntroBindingGap int `json:"intro_binding_gap"`

	CodeThreshold      float64 `json:"code_threshold"`
	StructureThreshold int     `json:"structure_threshold"`
	ListRatioThreshold float64 `json:"list_ratio_threshold"`
	ListCountThreshold int     `json:"list_count_threshold"`

	// StrategyOverride forces a named strategy; empty means automatic
	// selection.
	StrategyOverride string        `json:"strategy_override,omitempty"`
	SelectionMode    SelectionMode `json:"selection_mode"`
	FallbackEnabled  bool          `json:"fallback_enabled"`

	// StreamingLineThreshold switches to sequential fixed-window
	// processing for documents above this many lines; 0 disables.
	StreamingLineThreshold int `json:"streaming_line_threshold,omitempty"`
	StreamingWindowLines   int `json:"streaming_window_lines,omitempty"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize:         1500,
		MinChunkSize:         100,
		OverlapSize:          200,
		OverlapPercentage:    1.0,
		OverlapMetadataMode:  true,
		PreserveAtomicBlocks: true,
		OversizeTolerance:    1.2,
		IntroBindingGap:      2,
		CodeThreshold:        0.3,
		StructureThreshold:   3,
		ListRatioThreshold:   0.40,
		ListCountThreshold:   5,
		SelectionMode:        SelectStrict,
		FallbackEnabled:      true,
		StreamingWindowLines: 2000,
	}
}

// normalized applies defaults for zero values and validates the rest.
func (c Config) normalized() (Config, error) {
	d := DefaultConfig()
	if c.MaxChunkSize == 0 {
		c.MaxChunkSize = d.MaxChunkSize
	}
	if c.MinChunkSize == 0 {
		c.MinChunkSize = d.MinChunkSize
	}
	if c.OverlapSize == 0 {
		c.OverlapSize = d.OverlapSize
	}
	if c.OverlapPercentage == 0 {
		c.OverlapPercentage = d.OverlapPercentage
	}
	if c.OversizeTolerance == 0 {
		c.OversizeTolerance = d.OversizeTolerance
	}
	if c.IntroBindingGap == 0 {
		c.IntroBindingGap = d.IntroBindingGap
	}
	if c.CodeThreshold == 0 {
		c.CodeThreshold = d.CodeThreshold
	}
	if c.StructureThreshold == 0 {
		c.StructureThreshold = d.StructureThreshold
	}
	if c.ListRatioThreshold == 0 {
		c.ListRatioThreshold = d.ListRatioThreshold
	}
	if c.ListCountThreshold == 0 {
		c.ListCountThreshold = d.ListCountThreshold
	}
	if c.SelectionMode == "" {
		c.SelectionMode = SelectStrict
	}
	if c.StreamingWindowLines == 0 {
		c.StreamingWindowLines = d.StreamingWindowLines
	}

	switch {
	case c.MaxChunkSize < 0:
		return c, fmt.Errorf("%w: max_chunk_size %d is negative", ErrInvalidConfig, c.MaxChunkSize)
	case c.MinChunkSize < 0:
		return c, fmt.Errorf("%w: min_chunk_size %d is negative", ErrInvalidConfig, c.MinChunkSize)
	case c.MinChunkSize > c.MaxChunkSize:
		return c, fmt.Errorf("%w: min_chunk_size %d exceeds max_chunk_size %d",
			ErrInvalidConfig, c.MinChunkSize, c.MaxChunkSize)
	case c.OverlapSize < 0:
		return c, fmt.Errorf("%w: overlap_size %d is negative", ErrInvalidConfig, c.OverlapSize)
	case c.OverlapPercentage < 0 || c.OverlapPercentage > 1:
		return c, fmt.Errorf("%w: overlap_percentage %g outside [0,1]", ErrInvalidConfig, c.OverlapPercentage)
	case c.OversizeTolerance < 1:
		return c, fmt.Errorf("%w: oversize_tolerance %g below 1.0", ErrInvalidConfig, c.OversizeTolerance)
	}

	switch c.SelectionMode {
	case SelectStrict, SelectWeighted:
	default:
		return c, fmt.Errorf("%w: selection_mode %q", ErrInvalidConfig, c.SelectionMode)
	}

	switch c.StrategyOverride {
	case "", StrategyAuto, StrategyCodeAware, StrategyListAware, StrategyStructural, StrategyUniversal:
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownStrategy, c.StrategyOverride)
	}
	if c.StrategyOverride == StrategyAuto {
		c.StrategyOverride = ""
	}

	return c, nil
}
