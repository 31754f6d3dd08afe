package chunking

// BlockType classifies a structural unit of the source document.
type BlockType string

const (
	BlockHeader    BlockType = "header"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockTable     BlockType = "table"
	BlockCode      BlockType = "code"
	BlockURLPool   BlockType = "url_pool"
	BlockBlank     BlockType = "blank"
)

// Block is a typed, line-addressed span of the source text. Blocks are
// immutable once extracted; strategies reference them, never rewrite them.
// Lines are 1-based and inclusive.
type Block struct {
	Type      BlockType
	StartLine int
	EndLine   int
	Text      string
	// Level is the header depth (1-6) or the list nesting depth of the
	// block's first item (0 for a top-level item).
	Level int
	// IsClosed is false for a code fence with no matching close before EOF.
	IsClosed bool
}

// Size returns the content length used for packing decisions.
func (b Block) Size() int {
	return len(b.Text)
}

// IsAtomic reports whether the block must never be split across chunks.
func (b Block) IsAtomic() bool {
	switch b.Type {
	case BlockCode, BlockTable, BlockURLPool:
		return true
	}
	return false
}

// LineCount returns the number of source lines the block spans.
func (b Block) LineCount() int {
	return b.EndLine - b.StartLine + 1
}
