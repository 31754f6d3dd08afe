package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chunkmill/chunkmill/internal/parser"
	"github.com/chunkmill/chunkmill/pkg/chunking"
)

// chunkRequest is the JSON body for synchronous text chunking.
type chunkRequest struct {
	Text   string           `json:"text"`
	Config *chunking.Config `json:"config,omitempty"`
}

// handleChunk chunks Markdown text synchronously.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	cfg := s.cfg.ChunkDefaults()
	if req.Config != nil {
		cfg = *req.Config
	}

	res, err := s.chunker.Chunk(req.Text, cfg)
	if err != nil {
		writeChunkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// handleChunkFile parses one uploaded file and chunks it synchronously.
func (s *Server) handleChunkFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	data, err := s.readUpload(file)
	if err != nil {
		writeUploadError(w, filename, err)
		return
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	res, err := s.chunker.Chunk(doc.Markdown(), s.formChunkConfig(r))
	if err != nil {
		writeChunkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"title":    doc.Title,
		"outline":  doc.Outline(),
		"result":   res,
	})
}

// formChunkConfig builds an engine config from multipart form overrides
// on top of the service defaults.
func (s *Server) formChunkConfig(r *http.Request) chunking.Config {
	cfg := s.cfg.ChunkDefaults()
	if v := r.FormValue("max_chunk_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxChunkSize = n
		}
	}
	if v := r.FormValue("min_chunk_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MinChunkSize = n
		}
	}
	if v := r.FormValue("overlap_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OverlapSize = n
		}
	}
	if v := r.FormValue("strategy"); v != "" {
		cfg.StrategyOverride = v
	}
	if v := r.FormValue("selection_mode"); v != "" {
		cfg.SelectionMode = chunking.SelectionMode(v)
	}
	return cfg
}

func (s *Server) readUpload(file multipart.File) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, errUploadTooLarge
	}
	return data, nil
}

var errUploadTooLarge = errors.New("upload too large")

func writeUploadError(w http.ResponseWriter, filename string, err error) {
	if errors.Is(err, errUploadTooLarge) {
		jsonError(w, fmt.Sprintf("%s exceeds upload limit", filename), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "failed to read "+filename, http.StatusInternalServerError)
}

// writeChunkError maps engine errors to HTTP status codes:
// configuration problems are the caller's fault, the rest are ours.
func writeChunkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chunking.ErrInvalidConfig), errors.Is(err, chunking.ErrUnknownStrategy):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
