package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_SourcePreserved(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n```\nGET /api/users\n```\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Source != input {
		t.Error("markdown source must be preserved byte for byte")
	}
	if doc.Markdown() != input {
		t.Error("Markdown() must return the original source")
	}
}

func TestMarkdownParser_TitleFromH1(t *testing.T) {
	input := "# API Reference\n\nintro"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "API Reference" {
		t.Errorf("expected title from h1, got %q", doc.Title)
	}
}

func TestMarkdownParser_TitleFromFilenameWithoutH1(t *testing.T) {
	p := &MarkdownParser{}
	for _, tt := range []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
	} {
		doc, err := p.Parse(strings.NewReader("plain text, no headings"), tt.filename)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if doc.Title != tt.want {
			t.Errorf("%s: expected title %q, got %q", tt.filename, tt.want, doc.Title)
		}
	}
}

func TestMarkdownParser_OutlineHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

nested

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(doc.Sections))
	}
	h1 := doc.Sections[0]
	if h1.Title != "Title" {
		t.Errorf("expected h1 %q, got %q", "Title", h1.Title)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 sections, got %d", len(h1.Children))
	}
	if h1.Children[0].Title != "Section A" || h1.Children[1].Title != "Section B" {
		t.Errorf("h2 titles wrong: %q, %q", h1.Children[0].Title, h1.Children[1].Title)
	}
	if len(h1.Children[0].Children) != 1 || h1.Children[0].Children[0].Title != "Subsection A1" {
		t.Errorf("h3 nesting wrong: %+v", h1.Children[0].Children)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
}
