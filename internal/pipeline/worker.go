package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/chunkmill/chunkmill/internal/parser"
	"github.com/chunkmill/chunkmill/pkg/chunking"
)

// Worker runs parse-then-chunk for one job at a time.
type Worker struct {
	chunker           *chunking.Chunker
	log               *slog.Logger
	pdfFallbackEnable bool
}

func NewWorker(chunker *chunking.Chunker, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		chunker:           chunker,
		log:               log,
		pdfFallbackEnable: pdfFallback,
	}
}

// Process runs the pipeline for a job: parse the file into a document,
// normalize it to Markdown and chunk it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.pdfFallbackEnable
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title == "" {
		job.Title = doc.Title
	}

	text := doc.Markdown()
	job.ContentHash = ContentHashHex([]byte(text))

	job.SetStatus(StatusChunking, "chunking")
	res, err := w.chunker.Chunk(text, job.ChunkConfig())
	if err != nil {
		log.Error("chunking failed", "error", err)
		job.AddError(fmt.Sprintf("chunk: %s", err))
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	for _, warning := range res.Warnings {
		job.AddError(warning)
	}

	job.SetResult(res)
	log.Info("chunked document",
		"chunks", len(res.Chunks),
		"strategy", res.StrategyUsed,
		"fallback", res.FallbackUsed,
	)
	job.SetStatus(StatusCompleted, "done")
}
