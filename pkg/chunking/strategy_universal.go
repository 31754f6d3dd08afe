package chunking

import "strings"

// universalStrategy is the always-applicable fallback: pure size-bounded
// splitting at paragraph then sentence boundaries, with no structural
// prerequisites. It can never fail, which is what makes the fallback
// cascade terminal.
type universalStrategy struct{}

func (universalStrategy) Name() string  { return StrategyUniversal }
func (universalStrategy) Priority() int { return 4 }

func (universalStrategy) CanHandle(Analysis, Config) bool { return true }

func (universalStrategy) Quality(Analysis) float64 {
	// Universal handles anything but exploits nothing.
	return 0.1
}

func (universalStrategy) Apply(blocks []Block, cfg Config) ([]Chunk, error) {
	var chunks []Chunk
	var cur []Block

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, newChunk(cur, nil))
			cur = nil
		}
	}

	for _, b := range blocks {
		if b.Type == BlockBlank {
			continue
		}
		if b.Size() > cfg.MaxChunkSize {
			flush()
			if b.IsAtomic() && cfg.PreserveAtomicBlocks {
				c := newChunk([]Block{b}, nil)
				c.Metadata.IsOversize = true
				chunks = append(chunks, c)
				continue
			}
			for _, piece := range splitBlockBySize(b, cfg.MaxChunkSize) {
				chunks = append(chunks, newChunk([]Block{piece}, nil))
			}
			continue
		}
		if len(cur) > 0 && joinedSize(cur)+len(blockJoiner)+b.Size() > cfg.MaxChunkSize {
			flush()
		}
		cur = append(cur, b)
	}
	flush()

	return chunks, nil
}

// splitBlockBySize splits one overlong block into synthetic paragraph
// blocks, allocating line ranges proportionally to character offsets so
// chunk ordering stays monotonic.
func splitBlockBySize(b Block, maxSize int) []Block {
	pieces := splitTextBySize(b.Text, maxSize)
	if len(pieces) <= 1 {
		out := b
		out.Type = BlockParagraph
		return []Block{out}
	}

	total := len(b.Text)
	lines := b.LineCount()
	out := make([]Block, 0, len(pieces))
	offset := 0
	for _, piece := range pieces {
		start := b.StartLine + offset*lines/total
		endOffset := offset + len(piece) - 1
		if endOffset < offset {
			endOffset = offset
		}
		end := b.StartLine + endOffset*lines/total
		if end < start {
			end = start
		}
		out = append(out, Block{
			Type:      BlockParagraph,
			StartLine: start,
			EndLine:   end,
			Text:      piece,
			IsClosed:  true,
		})
		offset += len(piece) + 1
	}
	return out
}

// splitTextBySize splits plain text into size-bounded pieces, trying
// paragraph boundaries first, then sentences, then words.
func splitTextBySize(text string, maxSize int) []string {
	var out []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) > maxSize {
			flush()
			for _, sent := range splitSentences(para) {
				if len(sent) > maxSize {
					flush()
					out = append(out, splitWords(sent, maxSize)...)
					continue
				}
				if cur.Len() > 0 && cur.Len()+1+len(sent) > maxSize {
					flush()
				}
				if cur.Len() > 0 {
					cur.WriteString(" ")
				}
				cur.WriteString(sent)
			}
			flush()
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(blockJoiner)+len(para) > maxSize {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString(blockJoiner)
		}
		cur.WriteString(para)
	}
	flush()

	return out
}

// splitSentences tokenizes text into sentences, falling back to a crude
// punctuation scan when the tokenizer is unavailable.
func splitSentences(text string) []string {
	tok := sentenceTokenizer()
	if tok != nil {
		sents := tok.Tokenize(text)
		if len(sents) > 0 {
			out := make([]string, 0, len(sents))
			for _, s := range sents {
				if t := strings.TrimSpace(s.Text); t != "" {
					out = append(out, t)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}

	var out []string
	var cur strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		cur.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || runes[i+1] == ' ') {
			if t := strings.TrimSpace(cur.String()); t != "" {
				out = append(out, t)
			}
			cur.Reset()
		}
	}
	if t := strings.TrimSpace(cur.String()); t != "" {
		out = append(out, t)
	}
	return out
}

// splitWords hard-splits a single overlong sentence at word boundaries.
func splitWords(text string, maxSize int) []string {
	words := strings.Fields(text)
	var out []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len(w) > maxSize {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		// A single word beyond maxSize is emitted whole; chunk sizing
		// tolerates it rather than slicing mid-word.
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
