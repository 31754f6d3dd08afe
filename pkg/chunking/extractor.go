package chunking

import (
	"regexp"
	"strings"
)

// ExtractBlocks scans raw text into an ordered sequence of typed,
// line-addressed blocks in a single linear pass. Headers, list items,
// tables and URL pools are recognized only outside code fences; fences
// track the opening marker character and run length so a shorter or
// differently-typed run inside does not close them. An unterminated
// fence is still emitted, flagged IsClosed=false, extending to EOF.
func ExtractBlocks(text string) []Block {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	// A trailing newline produces a phantom empty final element.
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var blocks []Block

	paraStart := -1
	var paraLines []string

	flushPara := func() {
		if len(paraLines) == 0 {
			return
		}
		blocks = append(blocks, Block{
			Type:      BlockParagraph,
			StartLine: paraStart + 1,
			EndLine:   paraStart + len(paraLines),
			Text:      strings.Join(paraLines, "\n"),
			IsClosed:  true,
		})
		paraLines = nil
		paraStart = -1
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		// Blank run.
		if strings.TrimSpace(line) == "" {
			flushPara()
			start := i
			for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
				i++
			}
			blocks = append(blocks, Block{
				Type:      BlockBlank,
				StartLine: start + 1,
				EndLine:   i,
				Text:      strings.Join(lines[start:i], "\n"),
				IsClosed:  true,
			})
			continue
		}

		// Code fence.
		if ch, runLen, ok := fenceOpen(line); ok {
			flushPara()
			start := i
			i++
			closed := false
			for i < len(lines) {
				if fenceCloses(lines[i], ch, runLen) {
					closed = true
					i++
					break
				}
				i++
			}
			blocks = append(blocks, Block{
				Type:      BlockCode,
				StartLine: start + 1,
				EndLine:   i,
				Text:      strings.Join(lines[start:i], "\n"),
				IsClosed:  closed,
			})
			continue
		}

		// ATX header.
		if level, ok := headerLevel(line); ok {
			flushPara()
			blocks = append(blocks, Block{
				Type:      BlockHeader,
				StartLine: i + 1,
				EndLine:   i + 1,
				Text:      line,
				Level:     level,
				IsClosed:  true,
			})
			i++
			continue
		}

		// Table: a pipe row followed by a separator row.
		if strings.Contains(line, "|") && i+1 < len(lines) && isTableSeparator(lines[i+1]) {
			flushPara()
			start := i
			i += 2
			for i < len(lines) && strings.Contains(lines[i], "|") && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			blocks = append(blocks, Block{
				Type:      BlockTable,
				StartLine: start + 1,
				EndLine:   i,
				Text:      strings.Join(lines[start:i], "\n"),
				IsClosed:  true,
			})
			continue
		}

		// List block: one top-level item together with its nested sub-items.
		if depth, ok := listItem(line); ok {
			flushPara()
			start := i
			i++
			for i < len(lines) {
				next := lines[i]
				if strings.TrimSpace(next) == "" {
					// Keep a single blank inside the item only when deeper
					// content follows; otherwise the item ends here.
					if i+1 < len(lines) && continuesListItem(lines[i+1], depth) {
						i++
						continue
					}
					break
				}
				if d, isItem := listItem(next); isItem {
					if d <= depth {
						break
					}
					i++
					continue
				}
				if indentWidth(next) >= 2 {
					i++
					continue
				}
				break
			}
			blocks = append(blocks, Block{
				Type:      BlockList,
				StartLine: start + 1,
				EndLine:   i,
				Text:      strings.Join(lines[start:i], "\n"),
				Level:     depth,
				IsClosed:  true,
			})
			continue
		}

		// URL pool: 3+ consecutive lines that are each just a URL.
		if isURLLine(line) {
			run := 1
			for i+run < len(lines) && isURLLine(lines[i+run]) {
				run++
			}
			if run >= 3 {
				flushPara()
				blocks = append(blocks, Block{
					Type:      BlockURLPool,
					StartLine: i + 1,
					EndLine:   i + run,
					Text:      strings.Join(lines[i:i+run], "\n"),
					IsClosed:  true,
				})
				i += run
				continue
			}
		}

		// Paragraph line.
		if len(paraLines) == 0 {
			paraStart = i
		}
		paraLines = append(paraLines, line)
		i++
	}
	flushPara()

	return blocks
}

var (
	listMarkerRe   = regexp.MustCompile(`^([-*+]|\d{1,9}[.)])\s+\S`)
	urlLineRe      = regexp.MustCompile(`^<?https?://\S+>?$`)
	tableSepCellRe = regexp.MustCompile(`^:?-+:?$`)
)

// fenceOpen reports whether a line opens a code fence, returning the
// marker character and run length.
func fenceOpen(line string) (byte, int, bool) {
	if indentWidth(line) > 3 {
		return 0, 0, false
	}
	s := strings.TrimLeft(line, " ")
	if s == "" {
		return 0, 0, false
	}
	ch := s[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	run := 0
	for run < len(s) && s[run] == ch {
		run++
	}
	if run < 3 {
		return 0, 0, false
	}
	// A backtick fence's info string may not itself contain a backtick.
	if ch == '`' && strings.ContainsRune(s[run:], '`') {
		return 0, 0, false
	}
	return ch, run, true
}

// fenceCloses reports whether a line closes a fence opened with the given
// character and run length. The closing run must be at least as long and
// of the same character; anything shorter or different stays literal.
func fenceCloses(line string, ch byte, openLen int) bool {
	if indentWidth(line) > 3 {
		return false
	}
	s := strings.TrimSpace(line)
	if len(s) < openLen {
		return false
	}
	for j := 0; j < len(s); j++ {
		if s[j] != ch {
			return false
		}
	}
	return true
}

func headerLevel(line string) (int, bool) {
	if indentWidth(line) > 3 {
		return 0, false
	}
	s := strings.TrimLeft(line, " ")
	level := 0
	for level < len(s) && s[level] == '#' {
		level++
	}
	if level < 1 || level > 6 {
		return 0, false
	}
	if level == len(s) {
		return level, true
	}
	if s[level] == ' ' || s[level] == '\t' {
		return level, true
	}
	return 0, false
}

func listItem(line string) (int, bool) {
	indent := indentWidth(line)
	s := strings.TrimLeft(line, " \t")
	if !listMarkerRe.MatchString(s) {
		return 0, false
	}
	return indent / 2, true
}

// continuesListItem reports whether a line after a blank still belongs to
// the list item opened at the given depth.
func continuesListItem(line string, depth int) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if d, ok := listItem(line); ok {
		return d > depth
	}
	return indentWidth(line) >= 2
}

func isURLLine(line string) bool {
	return urlLineRe.MatchString(strings.TrimSpace(line))
}

// isTableSeparator matches the delimiter row of a pipe table,
// e.g. "| --- | :--: |".
func isTableSeparator(line string) bool {
	s := strings.TrimSpace(line)
	if !strings.Contains(s, "-") || !strings.Contains(s, "|") {
		return false
	}
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	cells := strings.Split(s, "|")
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !tableSepCellRe.MatchString(strings.TrimSpace(c)) {
			return false
		}
	}
	return true
}

func indentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}
