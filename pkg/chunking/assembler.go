package chunking

import "strings"

const blockJoiner = "\n\n"

// headerTracker maintains the stack of enclosing headers while walking
// blocks in document order.
type headerTracker struct {
	stack []headerFrame
}

type headerFrame struct {
	title string
	level int
}

func (t *headerTracker) observe(b Block) {
	if b.Type != BlockHeader {
		return
	}
	for len(t.stack) > 0 && t.stack[len(t.stack)-1].level >= b.Level {
		t.stack = t.stack[:len(t.stack)-1]
	}
	t.stack = append(t.stack, headerFrame{title: headerTitle(b.Text), level: b.Level})
}

func (t *headerTracker) path() []string {
	if len(t.stack) == 0 {
		return nil
	}
	out := make([]string, len(t.stack))
	for i, f := range t.stack {
		out[i] = f.title
	}
	return out
}

func (t *headerTracker) key() string {
	return strings.Join(t.path(), " > ")
}

func headerTitle(text string) string {
	s := strings.TrimLeft(strings.TrimSpace(text), "#")
	return strings.TrimSpace(strings.TrimRight(s, "#"))
}

// assembler is the packing algorithm shared by the strategies: greedy
// accumulation of whole blocks up to the size budget, with atomic-block
// and oversize-tolerance rules.
type assembler struct {
	cfg Config
	// splitAtHeaders starts a fresh chunk at every header (structural
	// packing).
	splitAtHeaders bool
	// bindIntroTo binds a paragraph to the block type it introduces when
	// the line gap is within cfg.IntroBindingGap.
	bindIntroTo map[BlockType]bool
}

// pack accumulates blocks into chunks. Blank blocks separate units but
// never appear in chunk content.
func (as assembler) pack(blocks []Block) []Chunk {
	p := &packer{
		cfg:            as.cfg,
		splitAtHeaders: as.splitAtHeaders,
		tolerance:      int(float64(as.cfg.MaxChunkSize) * as.cfg.OversizeTolerance),
	}
	for _, unit := range as.buildUnits(blocks) {
		p.add(unit)
	}
	p.flush()
	return as.mergeSmall(p.chunks)
}

type packer struct {
	cfg            Config
	splitAtHeaders bool
	tolerance      int

	tracker    headerTracker
	chunks     []Chunk
	cur        []Block
	curPath    []string
	curSection string
	// curHeaderLed records whether the accumulator began with a header,
	// which is what the oversize tolerance for whole sections keys on.
	curHeaderLed bool
	seenHeader   bool
}

func (p *packer) flush() {
	if len(p.cur) == 0 {
		return
	}
	p.chunks = append(p.chunks, newChunk(p.cur, p.curPath))
	p.cur = nil
}

func (p *packer) add(unit []Block) {
	first := unit[0]
	if first.Type == BlockHeader {
		if len(p.cur) > 0 && (p.splitAtHeaders || (p.cfg.ExtractPreamble && !p.seenHeader)) {
			p.flush()
		}
		p.seenHeader = true
	}

	usize := joinedSize(unit)
	if usize > p.cfg.MaxChunkSize && len(unit) > 1 {
		// A bound unit that cannot fit any budget degrades to its
		// individual blocks.
		for _, b := range unit {
			p.add([]Block{b})
		}
		return
	}

	for _, b := range unit {
		p.tracker.observe(b)
	}

	if len(unit) == 1 && first.Size() > p.cfg.MaxChunkSize {
		p.addOversize(first)
		return
	}

	curSize := joinedSize(p.cur)
	sep := 0
	if curSize > 0 {
		sep = len(blockJoiner)
	}
	if curSize > 0 && curSize+sep+usize > p.cfg.MaxChunkSize {
		// Oversize tolerance: keep a just-over-budget section whole when
		// the accumulator is that section's header plus its content.
		sameSection := p.curHeaderLed && p.tracker.key() == p.curSection
		if !(sameSection && curSize+sep+usize <= p.tolerance) {
			p.flush()
		}
	}

	if len(p.cur) == 0 {
		p.curPath = p.tracker.path()
		p.curSection = p.tracker.key()
		p.curHeaderLed = first.Type == BlockHeader
	}
	p.cur = append(p.cur, unit...)
}

// addOversize handles a single block that alone exceeds max_chunk_size.
// Atomic blocks are emitted whole and flagged is_oversize rather than
// split; anything else is split at sentence boundaries.
func (p *packer) addOversize(b Block) {
	p.flush()
	if b.IsAtomic() && p.cfg.PreserveAtomicBlocks {
		c := newChunk([]Block{b}, p.tracker.path())
		c.Metadata.IsOversize = true
		p.chunks = append(p.chunks, c)
		return
	}
	for _, piece := range splitBlockBySize(b, p.cfg.MaxChunkSize) {
		p.chunks = append(p.chunks, newChunk([]Block{piece}, p.tracker.path()))
	}
}

// buildUnits groups blocks into indivisible packing units: normally one
// block each, but an introduction paragraph within the configured line
// gap of a following bind target travels with it.
func (as assembler) buildUnits(blocks []Block) [][]Block {
	content := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Type != BlockBlank {
			content = append(content, b)
		}
	}

	var units [][]Block
	for i := 0; i < len(content); i++ {
		b := content[i]
		if len(as.bindIntroTo) > 0 && b.Type == BlockParagraph && i+1 < len(content) {
			next := content[i+1]
			gap := next.StartLine - b.EndLine - 1
			if as.bindIntroTo[next.Type] && gap >= 0 && gap <= as.cfg.IntroBindingGap {
				units = append(units, []Block{b, next})
				i++
				continue
			}
		}
		units = append(units, []Block{b})
	}
	return units
}

// mergeSmall merges chunks below min_chunk_size into an adjacent chunk,
// but only when both share the same nearest enclosing header and the
// merged chunk stays within the oversize tolerance. Merging across
// sections would contaminate semantics, so undersized chunks with no
// same-section neighbor are left alone.
func (as assembler) mergeSmall(chunks []Chunk) []Chunk {
	if len(chunks) < 2 {
		return chunks
	}
	tolerance := int(float64(as.cfg.MaxChunkSize) * as.cfg.OversizeTolerance)
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if len(out) > 0 && !c.Metadata.IsOversize {
			prev := &out[len(out)-1]
			small := len(c.core) < as.cfg.MinChunkSize || len(prev.core) < as.cfg.MinChunkSize
			fits := len(prev.core)+len(blockJoiner)+len(c.core) <= tolerance
			if small && fits && !prev.Metadata.IsOversize && samePath(prev.headerPath, c.headerPath) {
				merged := append(append([]Block{}, prev.blocks...), c.blocks...)
				*prev = newChunk(merged, prev.headerPath)
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newChunk(blocks []Block, path []string) Chunk {
	core := joinBlocks(blocks)
	return Chunk{
		Content:    core,
		StartLine:  blocks[0].StartLine,
		EndLine:    blocks[len(blocks)-1].EndLine,
		core:       core,
		blocks:     blocks,
		headerPath: path,
	}
}

func joinBlocks(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, blockJoiner)
}

func joinedSize(blocks []Block) int {
	if len(blocks) == 0 {
		return 0
	}
	n := len(blockJoiner) * (len(blocks) - 1)
	for _, b := range blocks {
		n += b.Size()
	}
	return n
}
