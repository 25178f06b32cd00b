package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, detail string) {
	s.respondJSON(w, status, ErrorResponse{Detail: detail})
}

// respondErr maps err to a status code. Internal errors are logged and
// answered with a generic detail.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.respondError(w, status, "Internal server error")
		return
	}
	s.respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, types.ErrUnknownComponent),
		errors.Is(err, types.ErrInvalidLineIndex),
		errors.Is(err, types.ErrInvalidTransition),
		errors.Is(err, types.ErrUnknownBrand),
		errors.Is(err, types.ErrInvalidCode),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidFilter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorReason labels a handleliste failure for the errors counter.
func errorReason(err error) string {
	switch {
	case errors.Is(err, types.ErrUnknownComponent):
		return "component"
	case errors.Is(err, types.ErrInvalidLineIndex):
		return "line_index"
	case errors.Is(err, types.ErrInvalidTransition):
		return "transition"
	case errors.Is(err, types.ErrUnknownBrand):
		return "brand"
	default:
		return "request"
	}
}

// decodeJSON reads at most cfg.MaxBodyBytes of the request body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
