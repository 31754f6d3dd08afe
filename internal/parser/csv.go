package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/chunkmill/chunkmill/internal/document"
)

// CSVParser handles CSV files. Rows are rendered as Markdown tables in
// batches, so the engine packs each batch as an atomic table block.
type CSVParser struct{}

// Rows per rendered table; keeps any single table block within a
// reasonable chunk budget.
const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Document{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}
		doc.Sections = append(doc.Sections, &document.Section{
			// 1-indexed rows, skipping the header row.
			Title: fmt.Sprintf("Rows %d-%d", i+2, end+1),
			Text:  renderMarkdownTable(headers, dataRows[i:end]),
		})
	}
	return doc, nil
}

func renderMarkdownTable(headers []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(sanitizeCells(headers), " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(headers))
		for j := range headers {
			if j < len(row) {
				cells[j] = row[j]
			}
		}
		sb.WriteString("| " + strings.Join(sanitizeCells(cells), " | ") + " |\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// sanitizeCells escapes characters that would break table syntax.
func sanitizeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = strings.TrimSpace(c)
	}
	return out
}
