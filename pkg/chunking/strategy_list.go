package chunking

// listAwareStrategy targets list-heavy documents: link collections,
// changelogs, outline-style notes. An item and its nested sub-items
// always co-locate (the extractor already emits them as one block), and
// an introduction paragraph is bound to the list or table it precedes.
type listAwareStrategy struct{}

func (listAwareStrategy) Name() string  { return StrategyListAware }
func (listAwareStrategy) Priority() int { return 2 }

func (listAwareStrategy) CanHandle(a Analysis, cfg Config) bool {
	ratioHit := a.ListRatio >= cfg.ListRatioThreshold
	countHit := a.ListItemCount >= cfg.ListCountThreshold
	if a.HeaderCount >= cfg.StructureThreshold {
		// With strong header structure the structural strategy is a
		// credible alternative, so both signals must agree.
		return ratioHit && countHit
	}
	return ratioHit || countHit
}

func (listAwareStrategy) Quality(a Analysis) float64 {
	q := a.ListRatio * 1.5
	if a.ListItemCount >= 10 {
		q += 0.2
	}
	if q > 1 {
		q = 1
	}
	return q
}

func (listAwareStrategy) Apply(blocks []Block, cfg Config) ([]Chunk, error) {
	as := assembler{
		cfg:         cfg,
		bindIntroTo: map[BlockType]bool{BlockList: true, BlockTable: true},
	}
	return as.pack(blocks), nil
}
