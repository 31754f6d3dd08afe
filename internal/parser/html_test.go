package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndContent(t *testing.T) {
	input := `<html><head><title>My Page</title></head><body>
<h1>Main</h1>
<p>Intro paragraph.</p>
<h2>Sub</h2>
<p>Sub content.</p>
<ul><li>first</li><li>second</li></ul>
<script>ignore();</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "My Page" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Title != "Main" {
		t.Fatalf("expected one h1 section, got %+v", doc.Sections)
	}
	main := doc.Sections[0]
	if !strings.Contains(main.Text, "Intro paragraph.") {
		t.Errorf("h1 text missing intro: %q", main.Text)
	}
	if len(main.Children) != 1 || main.Children[0].Title != "Sub" {
		t.Fatalf("expected nested h2, got %+v", main.Children)
	}
	sub := main.Children[0]
	if !strings.Contains(sub.Text, "- first") || !strings.Contains(sub.Text, "- second") {
		t.Errorf("list items should render as markdown list lines, got %q", sub.Text)
	}
	if strings.Contains(sub.Text, "ignore()") {
		t.Error("script content must be skipped")
	}
}

func TestHTMLParser_NoHeadings(t *testing.T) {
	input := `<html><body><p>only text</p></body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "bare.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Text != "only text" {
		t.Errorf("expected single bare section, got %+v", doc.Sections)
	}
}
