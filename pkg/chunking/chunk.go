package chunking

// Strategy names as they appear in configuration and chunk metadata.
const (
	StrategyAuto       = "auto"
	StrategyCodeAware  = "code_aware"
	StrategyListAware  = "list_aware"
	StrategyStructural = "structural"
	StrategyUniversal  = "universal"
)

// Metadata carries per-chunk annotations. Field order is serialization
// order; overlap fields are present only when non-empty.
type Metadata struct {
	Strategy   string   `json:"strategy"`
	ChunkIndex int      `json:"chunk_index"`
	HeaderPath []string `json:"header_path,omitempty"`
	IsOversize bool     `json:"is_oversize,omitempty"`

	FallbackUsed  bool   `json:"fallback_used,omitempty"`
	FallbackLevel string `json:"fallback_level,omitempty"`

	PreviousContent    string `json:"previous_content,omitempty"`
	NextContent        string `json:"next_content,omitempty"`
	PreviousChunkIndex *int   `json:"previous_chunk_index,omitempty"`
	NextChunkIndex     *int   `json:"next_chunk_index,omitempty"`
}

// Chunk is a bounded, contiguous, content-preserving fragment of the
// source document. Content covers one or more whole blocks; in legacy
// overlap mode it additionally carries merged neighbor context, while
// StartLine/EndLine always describe only the core range.
type Chunk struct {
	Content   string   `json:"content"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Metadata  Metadata `json:"metadata"`

	// core is the chunk's own content, independent of overlap mode.
	core string
	// blocks are the source blocks packed into this chunk, kept for
	// block-aware overlap extraction.
	blocks []Block
	// headerPath holds the ancestor header titles at the chunk start.
	headerPath []string
}

// Core returns the chunk's own content without any merged overlap.
func (c Chunk) Core() string {
	return c.core
}

// Result is the outcome of chunking one document.
type Result struct {
	Chunks        []Chunk  `json:"chunks"`
	StrategyUsed  string   `json:"strategy_used"`
	FallbackUsed  bool     `json:"fallback_used"`
	FallbackLevel string   `json:"fallback_level,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
