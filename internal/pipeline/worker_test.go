package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chunkmill/chunkmill/internal/config"
	"github.com/chunkmill/chunkmill/pkg/chunking"
)

func testOrchestratorConfig() config.Config {
	return config.Config{
		WorkerCount:  2,
		MaxQueueSize: 4,
		JobTTL:       time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestJob(filename string, data []byte) *Job {
	now := time.Now()
	job := &Job{
		ID:        NewJobID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	job.SetChunkConfig(chunking.DefaultConfig())
	return job
}

func TestWorker_ProcessMarkdown(t *testing.T) {
	w := NewWorker(chunking.New(testLogger()), testLogger(), false)
	job := newTestJob("guide.md", []byte("# Guide\n\nSome body text for chunking.\n\n- item one\n- item two"))

	w.Process(context.Background(), job)

	if job.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%v)", job.Status, job.Snapshot().Progress.Errors)
	}
	res := job.Result()
	if res == nil || len(res.Chunks) == 0 {
		t.Fatal("expected chunks in the result")
	}
	if job.Title != "Guide" {
		t.Errorf("expected title from the document, got %q", job.Title)
	}
	if job.ContentHash == "" {
		t.Error("expected content hash to be recorded")
	}
	if job.FileData() != nil {
		t.Error("file bytes should be released after completion")
	}
}

func TestWorker_ProcessPlainText(t *testing.T) {
	w := NewWorker(chunking.New(testLogger()), testLogger(), false)
	job := newTestJob("notes.txt", []byte("First paragraph.\n\nSecond paragraph."))

	w.Process(context.Background(), job)

	if job.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", job.Status)
	}
	if job.Result().StrategyUsed == "" {
		t.Error("expected a strategy to be recorded")
	}
}

func TestWorker_UnsupportedFormat(t *testing.T) {
	w := NewWorker(chunking.New(testLogger()), testLogger(), false)
	job := newTestJob("image.png", []byte{0x89, 0x50})

	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", job.Status)
	}
	if len(job.Snapshot().Progress.Errors) == 0 {
		t.Error("expected an error to be recorded")
	}
}

func TestWorker_CanceledContext(t *testing.T) {
	w := NewWorker(chunking.New(testLogger()), testLogger(), false)
	job := newTestJob("doc.md", []byte("# T\n\nbody"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Process(ctx, job)

	if job.Status != StatusFailed {
		t.Fatalf("expected failed on canceled context, got %s", job.Status)
	}
}

func TestOrchestrator_SubmitAndComplete(t *testing.T) {
	cfgLike := testOrchestratorConfig()
	orch := NewOrchestrator(cfgLike, chunking.New(testLogger()), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch.Start(ctx)
	defer orch.Stop()

	job := newTestJob("doc.md", []byte("# Title\n\nenough text to produce at least one chunk."))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		got := orch.GetJob(job.ID)
		if got != nil && (got.Status == StatusCompleted || got.Status == StatusFailed) {
			if got.Status != StatusCompleted {
				t.Fatalf("job failed: %v", got.Snapshot().Progress.Errors)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("job did not finish in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
