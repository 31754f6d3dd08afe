package chunking

import "strings"

// Analysis holds aggregate document metrics used for strategy scoring.
// It is a pure function of the block list: no I/O, fully deterministic,
// never mutated after construction.
type Analysis struct {
	TotalChars int
	TotalLines int

	CodeRatio  float64
	ListRatio  float64
	TableRatio float64

	HeaderCount    int
	MaxHeaderDepth int
	CodeBlockCount int
	ListItemCount  int

	HasPreamble    bool
	PreambleEnd    int // last line of the preamble, 0 when absent
	AvgSentenceLen float64
}

// Analyze computes document metrics over an extracted block sequence.
func Analyze(blocks []Block) Analysis {
	var a Analysis
	var codeChars, listChars, tableChars int
	var paragraphText strings.Builder

	firstContentSeen := false
	for _, b := range blocks {
		if b.EndLine > a.TotalLines {
			a.TotalLines = b.EndLine
		}
		if b.Type == BlockBlank {
			continue
		}
		a.TotalChars += b.Size()

		if !firstContentSeen {
			firstContentSeen = true
			if b.Type != BlockHeader {
				a.HasPreamble = true
			}
		}

		switch b.Type {
		case BlockHeader:
			a.HeaderCount++
			if b.Level > a.MaxHeaderDepth {
				a.MaxHeaderDepth = b.Level
			}
			if a.HasPreamble && a.PreambleEnd == 0 {
				a.PreambleEnd = b.StartLine - 1
			}
		case BlockCode:
			a.CodeBlockCount++
			codeChars += b.Size()
		case BlockList:
			a.ListItemCount += countListItems(b.Text)
			listChars += b.Size()
		case BlockTable:
			tableChars += b.Size()
		case BlockParagraph:
			if paragraphText.Len() > 0 {
				paragraphText.WriteString(" ")
			}
			paragraphText.WriteString(b.Text)
		}
	}

	if a.HasPreamble && a.PreambleEnd == 0 {
		// Document with no header at all: the preamble is everything.
		a.PreambleEnd = a.TotalLines
	}

	if a.TotalChars > 0 {
		a.CodeRatio = float64(codeChars) / float64(a.TotalChars)
		a.ListRatio = float64(listChars) / float64(a.TotalChars)
		a.TableRatio = float64(tableChars) / float64(a.TotalChars)
	}

	a.AvgSentenceLen = avgSentenceLength(paragraphText.String())
	return a
}

func countListItems(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if _, ok := listItem(line); ok {
			n++
		}
	}
	return n
}

func avgSentenceLength(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	tok := sentenceTokenizer()
	if tok == nil {
		// Degenerate fallback: treat the whole text as one sentence.
		return float64(len(text))
	}
	sents := tok.Tokenize(text)
	if len(sents) == 0 {
		return float64(len(text))
	}
	total := 0
	for _, s := range sents {
		total += len(strings.TrimSpace(s.Text))
	}
	return float64(total) / float64(len(sents))
}
