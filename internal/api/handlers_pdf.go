package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/jobb/internal/pdftext"
)

func (s *Server) handleReadPDF(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	if !s.pdfAllowed(path) {
		s.respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		s.respondError(w, http.StatusNotFound, "File not found")
		return
	}

	text, err := pdftext.ReadFile(path)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, TextResponse{Text: text})
}

func (s *Server) handleExtractPDF(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	s.respondJSON(w, http.StatusOK, TextResponse{Text: pdftext.Extract(data)})
}

// pdfAllowed reports whether path lies beneath the configured PDF root.
// Without a root every path is allowed.
func (s *Server) pdfAllowed(path string) bool {
	if s.cfg.PDFRoot == "" {
		return true
	}
	root, err := filepath.Abs(s.cfg.PDFRoot)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
