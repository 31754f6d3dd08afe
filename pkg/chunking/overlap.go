package chunking

import "strings"

// overlapSeparator joins neighbor context to core content in legacy
// merged mode; its length is the per-junction overhead in the size
// formula.
const overlapSeparator = "\n\n"

// contextBudget computes the effective overlap allowance for a chunk of
// the given core length. Both neighbor-context extractions use this one
// formula regardless of output mode: the configured size, scaled down by
// the overlap percentage, under a hard ceiling derived from requiring
// overlap/(overlap+core+separator overhead) <= 0.5.
func contextBudget(coreLen int, cfg Config) int {
	eff := cfg.OverlapSize
	if p := int(cfg.OverlapPercentage * float64(coreLen)); p < eff {
		eff = p
	}
	ceiling := coreLen + 2*len(overlapSeparator)
	if eff > ceiling {
		eff = ceiling
	}
	if eff < 0 {
		eff = 0
	}
	return eff
}

// applyOverlap attaches bounded neighbor context to every interior
// chunk, in a single pass after all chunks for the document are final.
// The first chunk never receives previous context and the last never
// receives next context.
func applyOverlap(chunks []Chunk, cfg Config) []Chunk {
	for i := range chunks {
		budget := contextBudget(len(chunks[i].core), cfg)

		var prevCtx, nextCtx string
		if i > 0 && !isolated(cfg, chunks[i], chunks[i-1]) {
			prevCtx = extractContext(chunks[i-1].blocks, budget, true)
		}
		if i < len(chunks)-1 && !isolated(cfg, chunks[i], chunks[i+1]) {
			nextCtx = extractContext(chunks[i+1].blocks, budget, false)
		}

		if cfg.OverlapMetadataMode {
			if prevCtx != "" {
				idx := i - 1
				chunks[i].Metadata.PreviousContent = prevCtx
				chunks[i].Metadata.PreviousChunkIndex = &idx
			}
			if nextCtx != "" {
				idx := i + 1
				chunks[i].Metadata.NextContent = nextCtx
				chunks[i].Metadata.NextChunkIndex = &idx
			}
			chunks[i].Content = chunks[i].core
			continue
		}

		// Legacy merged mode: context is folded into content, with
		// start/end lines still describing only the core range.
		merged := chunks[i].core
		if prevCtx != "" {
			merged = prevCtx + overlapSeparator + merged
		}
		if nextCtx != "" {
			merged = merged + overlapSeparator + nextCtx
		}
		chunks[i].Content = merged
	}
	return chunks
}

// isolated reports whether two adjacent chunks live under different
// top-level headers and section isolation is enabled; extracting no
// context there is correct, not an error.
func isolated(cfg Config, a, b Chunk) bool {
	if !cfg.SectionIsolation {
		return false
	}
	return topSection(a) != topSection(b)
}

func topSection(c Chunk) string {
	if len(c.headerPath) == 0 {
		return ""
	}
	return c.headerPath[0]
}

// extractContext walks whole blocks from the relevant end of a neighbor
// chunk, preferring content blocks over headers so the context is never
// just a section title. It stops at the safe boundary before an
// unbalanced code fence. The result never exceeds the budget.
func extractContext(blocks []Block, budget int, fromEnd bool) string {
	if budget <= 0 {
		return ""
	}

	pool := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Type != BlockBlank && b.Type != BlockHeader {
			pool = append(pool, b)
		}
	}
	if len(pool) == 0 {
		// Header-only neighbor: fall back to including headers.
		for _, b := range blocks {
			if b.Type != BlockBlank {
				pool = append(pool, b)
			}
		}
	}
	if len(pool) == 0 {
		return ""
	}

	var picked []Block
	size := 0
	for n := 0; n < len(pool); n++ {
		var b Block
		if fromEnd {
			b = pool[len(pool)-1-n]
		} else {
			b = pool[n]
		}
		if b.Type == BlockCode && !b.IsClosed {
			break
		}
		add := b.Size()
		if len(picked) > 0 {
			add += len(blockJoiner)
		}
		if size+add > budget {
			if len(picked) == 0 && b.Type == BlockParagraph {
				return sliceToFit(b.Text, budget, fromEnd)
			}
			break
		}
		if fromEnd {
			picked = append([]Block{b}, picked...)
		} else {
			picked = append(picked, b)
		}
		size += add
	}

	return joinBlocks(picked)
}

// sliceToFit trims text to the budget at a word boundary, keeping the
// end or the start depending on which side faces the neighbor.
func sliceToFit(text string, budget int, fromEnd bool) string {
	if len(text) <= budget {
		return text
	}
	if fromEnd {
		cut := text[len(text)-budget:]
		if i := strings.IndexAny(cut, " \n"); i >= 0 {
			cut = cut[i+1:]
		}
		return strings.TrimSpace(cut)
	}
	cut := text[:budget]
	if i := strings.LastIndexAny(cut, " \n"); i >= 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
