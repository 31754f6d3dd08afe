package chunking

// structuralStrategy targets well-sectioned documents: each header opens
// a fresh chunk so section boundaries and chunk boundaries line up, and
// the oversize tolerance keeps a slightly-over-budget section whole.
type structuralStrategy struct{}

func (structuralStrategy) Name() string  { return StrategyStructural }
func (structuralStrategy) Priority() int { return 3 }

func (structuralStrategy) CanHandle(a Analysis, cfg Config) bool {
	return a.HeaderCount >= cfg.StructureThreshold
}

func (structuralStrategy) Quality(a Analysis) float64 {
	q := float64(a.HeaderCount) / 10
	if a.MaxHeaderDepth >= 2 {
		q += 0.2
	}
	if q > 1 {
		q = 1
	}
	return q
}

func (structuralStrategy) Apply(blocks []Block, cfg Config) ([]Chunk, error) {
	as := assembler{
		cfg:            cfg,
		splitAtHeaders: true,
		bindIntroTo:    map[BlockType]bool{BlockList: true, BlockTable: true},
	}
	return as.pack(blocks), nil
}
