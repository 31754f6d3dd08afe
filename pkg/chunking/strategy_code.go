package chunking

// codeAwareStrategy targets documents dominated by fenced code. Fences
// are packed atomically, and a paragraph introducing a code block stays
// with it so examples keep their lead-in.
type codeAwareStrategy struct{}

func (codeAwareStrategy) Name() string  { return StrategyCodeAware }
func (codeAwareStrategy) Priority() int { return 1 }

func (codeAwareStrategy) CanHandle(a Analysis, cfg Config) bool {
	return a.CodeRatio >= cfg.CodeThreshold || a.CodeBlockCount >= 1
}

func (codeAwareStrategy) Quality(a Analysis) float64 {
	// Heavily code-flavored documents score toward 1.
	q := a.CodeRatio * 2
	if a.CodeBlockCount >= 3 {
		q += 0.2
	}
	if q > 1 {
		q = 1
	}
	return q
}

func (codeAwareStrategy) Apply(blocks []Block, cfg Config) ([]Chunk, error) {
	as := assembler{
		cfg:         cfg,
		bindIntroTo: map[BlockType]bool{BlockCode: true},
	}
	return as.pack(blocks), nil
}
