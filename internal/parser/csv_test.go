package parser

import (
	"fmt"
	"strings"
	"testing"
)

func TestCSVParser_RendersMarkdownTables(t *testing.T) {
	input := "name,age\nAna,3\nBo,5\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 batch section, got %d", len(doc.Sections))
	}
	text := doc.Sections[0].Text
	if !strings.HasPrefix(text, "| name | age |") {
		t.Errorf("expected markdown table header, got %q", text)
	}
	if !strings.Contains(text, "| --- | --- |") {
		t.Errorf("expected separator row, got %q", text)
	}
	if !strings.Contains(text, "| Ana | 3 |") {
		t.Errorf("expected data row, got %q", text)
	}
}

func TestCSVParser_BatchesLargeFiles(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 0; i < 45; i++ {
		fmt.Fprintf(&sb, "%d,v%d\n", i, i)
	}

	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(sb.String()), "big.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("45 rows at batch size 20 should give 3 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Rows 2-21" {
		t.Errorf("first batch title wrong: %q", doc.Sections[0].Title)
	}
}

func TestCSVParser_EscapesPipes(t *testing.T) {
	input := "col\na|b\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "pipes.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Sections[0].Text, `a\|b`) {
		t.Errorf("pipe not escaped: %q", doc.Sections[0].Text)
	}
}

func TestCSVParser_Empty(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(doc.Sections))
	}
}
