package document

import (
	"fmt"
	"strings"
)

// Document is a parsed input file, normalized to Markdown for the
// chunking engine. Non-Markdown formats are converted into Sections;
// Markdown input keeps its original source so fences, tables and list
// structure survive untouched.
type Document struct {
	Title    string     // Document title (from metadata or filename)
	Source   string     // Original Markdown source, when the input was Markdown
	Sections []*Section // Top-level sections for converted formats
}

// Section is a recursive piece of a converted document.
type Section struct {
	Title    string // Section heading (empty for bare text)
	Text     string // Text content (may be empty for container sections)
	Page     int    // Source page (0 if N/A)
	Children []*Section
}

// Markdown renders the document as Markdown text for the engine. When
// the input already was Markdown the source is returned verbatim.
func (d *Document) Markdown() string {
	if d.Source != "" {
		return d.Source
	}
	var sb strings.Builder
	for _, s := range d.Sections {
		renderSection(&sb, s, 1)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderSection(sb *strings.Builder, s *Section, level int) {
	if level > 6 {
		level = 6
	}
	if s.Title != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), s.Title)
	}
	if s.Text != "" {
		sb.WriteString(strings.TrimSpace(s.Text))
		sb.WriteString("\n\n")
	}
	for _, c := range s.Children {
		renderSection(sb, c, level+1)
	}
}

// PlainText flattens all section text into one string, used for
// content hashing and size accounting.
func (d *Document) PlainText() string {
	if d.Source != "" {
		return d.Source
	}
	var sb strings.Builder
	var walk func(sections []*Section)
	walk = func(sections []*Section) {
		for _, s := range sections {
			if s.Text != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(s.Text)
			}
			walk(s.Children)
		}
	}
	walk(d.Sections)
	return sb.String()
}

// Outline returns the section title hierarchy as indented lines.
func (d *Document) Outline() []string {
	var out []string
	var walk func(sections []*Section, depth int)
	walk = func(sections []*Section, depth int) {
		for _, s := range sections {
			if s.Title != "" {
				out = append(out, strings.Repeat("  ", depth)+s.Title)
			}
			walk(s.Children, depth+1)
		}
	}
	walk(d.Sections, 0)
	return out
}
