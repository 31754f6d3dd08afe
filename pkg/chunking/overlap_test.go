package chunking

import (
	"strings"
	"testing"
)

func paragraphBlock(text string, startLine int) Block {
	lines := strings.Count(text, "\n")
	return Block{
		Type:      BlockParagraph,
		StartLine: startLine,
		EndLine:   startLine + lines,
		Text:      text,
		IsClosed:  true,
	}
}

func TestContextBudget_Formula(t *testing.T) {
	cfg := mustCfg(t, Config{OverlapSize: 200, OverlapPercentage: 1.0})

	// Large core: the configured size wins.
	if got := contextBudget(1000, cfg); got != 200 {
		t.Errorf("large core: expected 200, got %d", got)
	}
	// Tiny core: the percentage scales the budget down.
	if got := contextBudget(50, cfg); got != 50 {
		t.Errorf("tiny core: expected 50, got %d", got)
	}

	cfg.OverlapPercentage = 0.1
	if got := contextBudget(1000, cfg); got != 100 {
		t.Errorf("10%% of 1000: expected 100, got %d", got)
	}
}

func TestContextBudget_CeilingKeepsContextMinority(t *testing.T) {
	// The ceiling guarantees overlap/(overlap+core+overhead) <= 0.5 even
	// when configuration asks for more.
	cfg := mustCfg(t, Config{OverlapSize: 10000, OverlapPercentage: 1.0})
	core := 30
	budget := contextBudget(core, cfg)

	overhead := 2 * len(overlapSeparator)
	if budget > core+overhead {
		t.Fatalf("budget %d above ceiling %d", budget, core+overhead)
	}
	ratio := float64(budget) / float64(budget+core+overhead)
	if ratio > 0.5 {
		t.Errorf("context fraction %.2f exceeds 0.5", ratio)
	}
}

func TestExtractContext_PrefersContentOverHeaders(t *testing.T) {
	blocks := []Block{
		{Type: BlockHeader, StartLine: 1, EndLine: 1, Text: "# Section", Level: 1, IsClosed: true},
		paragraphBlock("the actual paragraph content", 3),
	}
	got := extractContext(blocks, 500, true)
	if got != "the actual paragraph content" {
		t.Errorf("expected paragraph only, got %q", got)
	}
}

func TestExtractContext_HeaderOnlyNeighborFallsBack(t *testing.T) {
	blocks := []Block{
		{Type: BlockHeader, StartLine: 1, EndLine: 1, Text: "# Only a Title", Level: 1, IsClosed: true},
	}
	got := extractContext(blocks, 500, true)
	if got != "# Only a Title" {
		t.Errorf("expected the header as last resort, got %q", got)
	}
}

func TestExtractContext_StopsBeforeUnclosedFence(t *testing.T) {
	blocks := []Block{
		paragraphBlock("safe text", 1),
		{Type: BlockCode, StartLine: 3, EndLine: 5, Text: "```\nbroken", IsClosed: false},
	}
	// From the end the fence comes first, so nothing is extractable.
	if got := extractContext(blocks, 500, true); got != "" {
		t.Errorf("tail context must stop at the unbalanced fence, got %q", got)
	}
	// From the start the paragraph is safe; extraction stops before the
	// fence rather than aborting entirely.
	if got := extractContext(blocks, 500, false); got != "safe text" {
		t.Errorf("head context should keep the text before the fence, got %q", got)
	}
}

func TestExtractContext_PartialParagraphAtWordBoundary(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"
	blocks := []Block{paragraphBlock(text, 1)}

	got := extractContext(blocks, 20, true)
	if got == "" || len(got) > 20 {
		t.Fatalf("expected non-empty slice within 20 chars, got %q", got)
	}
	if !strings.HasSuffix(text, got) {
		t.Errorf("tail slice must come from the end, got %q", got)
	}
	if strings.HasPrefix(got, " ") || strings.HasSuffix(got, " ") {
		t.Errorf("slice not trimmed: %q", got)
	}
}

func TestApplyOverlap_MetadataMode(t *testing.T) {
	cfg := mustCfg(t, Config{OverlapSize: 200, OverlapPercentage: 1.0, OverlapMetadataMode: true})
	chunks := []Chunk{
		newChunk([]Block{paragraphBlock(strings.Repeat("a", 20), 1)}, nil),
		newChunk([]Block{paragraphBlock(strings.Repeat("b", 20), 3)}, nil),
		newChunk([]Block{paragraphBlock(strings.Repeat("c", 20), 5)}, nil),
	}

	out := applyOverlap(chunks, cfg)

	first, mid, last := out[0], out[1], out[2]
	if first.Metadata.PreviousContent != "" || first.Metadata.PreviousChunkIndex != nil {
		t.Error("first chunk must have no previous context")
	}
	if last.Metadata.NextContent != "" || last.Metadata.NextChunkIndex != nil {
		t.Error("last chunk must have no next context")
	}
	if mid.Metadata.PreviousContent != strings.Repeat("a", 20) {
		t.Errorf("mid previous wrong: %q", mid.Metadata.PreviousContent)
	}
	if mid.Metadata.NextContent != strings.Repeat("c", 20) {
		t.Errorf("mid next wrong: %q", mid.Metadata.NextContent)
	}
	if mid.Metadata.PreviousChunkIndex == nil || *mid.Metadata.PreviousChunkIndex != 0 {
		t.Error("mid previous index wrong")
	}
	if mid.Metadata.NextChunkIndex == nil || *mid.Metadata.NextChunkIndex != 2 {
		t.Error("mid next index wrong")
	}
	if mid.Content != mid.Core() {
		t.Error("metadata mode must leave content equal to core")
	}
}

func TestApplyOverlap_LegacyModeMergesContent(t *testing.T) {
	cfg := mustCfg(t, Config{OverlapSize: 200, OverlapPercentage: 1.0, OverlapMetadataMode: false})
	a, b, c := strings.Repeat("a", 20), strings.Repeat("b", 20), strings.Repeat("c", 20)
	chunks := []Chunk{
		newChunk([]Block{paragraphBlock(a, 1)}, nil),
		newChunk([]Block{paragraphBlock(b, 3)}, nil),
		newChunk([]Block{paragraphBlock(c, 5)}, nil),
	}

	out := applyOverlap(chunks, cfg)

	want := a + overlapSeparator + b + overlapSeparator + c
	if out[1].Content != want {
		t.Errorf("merged content wrong:\n got %q\nwant %q", out[1].Content, want)
	}
	if out[1].Core() != b {
		t.Error("core must stay free of merged context")
	}
	if out[1].StartLine != 3 || out[1].EndLine != 3 {
		t.Errorf("line range must describe only the core, got %d-%d", out[1].StartLine, out[1].EndLine)
	}
}

func TestApplyOverlap_SectionIsolation(t *testing.T) {
	cfg := mustCfg(t, Config{OverlapSize: 200, OverlapPercentage: 1.0,
		OverlapMetadataMode: true, SectionIsolation: true})
	chunks := []Chunk{
		newChunk([]Block{paragraphBlock("first section body text", 1)}, []string{"A"}),
		newChunk([]Block{paragraphBlock("second section body text", 3)}, []string{"B"}),
	}

	out := applyOverlap(chunks, cfg)

	if out[0].Metadata.NextContent != "" || out[1].Metadata.PreviousContent != "" {
		t.Error("isolation must suppress context across top-level sections")
	}
}

func TestApplyOverlap_BudgetCapsSmallChunks(t *testing.T) {
	cfg := mustCfg(t, Config{OverlapSize: 200, OverlapPercentage: 1.0, OverlapMetadataMode: true})
	long := strings.Repeat("word ", 60) // ~300 chars in the neighbor
	small := strings.Repeat("s", 50)
	chunks := []Chunk{
		newChunk([]Block{paragraphBlock(strings.TrimSpace(long), 1)}, nil),
		newChunk([]Block{paragraphBlock(small, 3)}, nil),
	}

	out := applyOverlap(chunks, cfg)

	prev := out[1].Metadata.PreviousContent
	budget := contextBudget(50, cfg)
	if len(prev) > budget {
		t.Errorf("previous context %d chars exceeds budget %d", len(prev), budget)
	}
	if prev == "" {
		t.Error("expected partial context, got none")
	}
}
