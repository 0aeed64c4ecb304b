package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AKSarav/pdfstract"
	"github.com/AKSarav/pdfstract/chunk"
)

func (s *Server) handleLibraries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"libraries": s.conv.Libraries()})
}

func (s *Server) handleChunkers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"chunkers": s.conv.Chunkers()})
}

// handleConvert accepts a multipart upload (file, library, format) and
// returns the single conversion result.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	path, cleanup, ok := s.saveUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	format, err := pdfstract.ParseFormat(r.FormValue("format"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	res, err := s.conv.Convert(r.Context(), path, r.FormValue("library"), format)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCompare accepts a multipart upload (file, libraries as a
// comma-separated list, format, optional timeout in seconds) and returns
// the comparison report. The report is persisted when the converter has a
// task store, so the returned task_id can be fetched again later.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	path, cleanup, ok := s.saveUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	var libraries []string
	for _, name := range strings.Split(r.FormValue("libraries"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			libraries = append(libraries, name)
		}
	}
	format, err := pdfstract.ParseFormat(r.FormValue("format"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	conv := s.conv
	if raw := r.FormValue("timeout"); raw != "" {
		secs, err := strconv.ParseFloat(raw, 64)
		if err != nil || secs <= 0 {
			http.Error(w, "invalid timeout: "+raw, http.StatusBadRequest)
			return
		}
		conv = conv.With(pdfstract.WithTimeout(time.Duration(secs * float64(time.Second))))
	}

	report, err := conv.Compare(r.Context(), path, libraries, format)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// batchRequest is the JSON body of POST /api/batch.
type batchRequest struct {
	Directory       string `json:"directory"`
	Library         string `json:"library"`
	Pattern         string `json:"pattern,omitempty"`
	ParallelWorkers int    `json:"parallel_workers,omitempty"`
	ContinueOnError bool   `json:"continue_on_error,omitempty"`
	Format          string `json:"format,omitempty"`
	Chunker         string `json:"chunker,omitempty"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	format, err := pdfstract.ParseFormat(req.Format)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	report, err := s.conv.Batch(r.Context(), req.Directory, req.Library, pdfstract.BatchOptions{
		Pattern:         req.Pattern,
		Workers:         req.ParallelWorkers,
		ContinueOnError: req.ContinueOnError,
		Format:          format,
		Chunker:         req.Chunker,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// chunkRequest is the JSON body of POST /api/chunk.
type chunkRequest struct {
	Text         string `json:"text"`
	Chunker      string `json:"chunker"`
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.conv.Chunk(req.Text, req.Chunker, chunk.Options{
		Size:    req.ChunkSize,
		Overlap: req.ChunkOverlap,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	report, err := s.conv.Task(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.conv.DeleteTask(chi.URLParam(r, "taskID")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// saveUpload copies the multipart "file" field into a fresh temp directory
// under the upload's own base name, so reports keep the originating
// document's identity rather than a temp-file name. On failure it writes
// the HTTP error itself and returns ok=false.
func (s *Server) saveUpload(w http.ResponseWriter, r *http.Request) (path string, cleanup func(), ok bool) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		http.Error(w, "failed to parse multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "pdfstract-upload-")
	if err != nil {
		http.Error(w, "failed to create temp dir", http.StatusInternalServerError)
		return "", nil, false
	}
	cleanup = func() { os.RemoveAll(dir) }

	// Base strips any client-supplied directory components.
	name := filepath.Base(fh.Filename)
	if name == "" || name == "." || name == ".." || name == "/" {
		name = "upload.pdf"
	}
	path = filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		http.Error(w, "failed to save upload", http.StatusInternalServerError)
		return "", nil, false
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		cleanup()
		http.Error(w, "failed to save upload", http.StatusInternalServerError)
		return "", nil, false
	}
	if err := dst.Close(); err != nil {
		cleanup()
		http.Error(w, "failed to save upload", http.StatusInternalServerError)
		return "", nil, false
	}
	return path, cleanup, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps library errors onto HTTP status codes: request-level
// validation problems are 400s, unknown tasks are 404s, everything else is
// a 500.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := http.StatusInternalServerError
	var reqErr *pdfstract.RequestError
	switch {
	case errors.As(err, &reqErr):
		status = http.StatusBadRequest
	case errors.Is(err, pdfstract.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pdfstract.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
