package parser

import (
	"io"
	"strings"

	"github.com/chunkmill/chunkmill/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The source text is kept
// verbatim for the chunking engine; goldmark is used only to extract
// the title and section outline, so fenced code and tables reach the
// engine exactly as written.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{
		Title:  titleFromFilename(filename),
		Source: string(src),
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	type stackEntry struct {
		section *document.Section
		level   int
	}
	top := &document.Section{}
	stack := []stackEntry{{section: top, level: 0}}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		title := strings.TrimSpace(string(h.Text(src)))
		if title == "" {
			continue
		}
		if h.Level == 1 && doc.Title == titleFromFilename(filename) {
			doc.Title = title
		}

		sec := &document.Section{Title: title}
		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].section
		parent.Children = append(parent.Children, sec)
		stack = append(stack, stackEntry{section: sec, level: h.Level})
	}

	doc.Sections = top.Children
	return doc, nil
}
