package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleHandleliste generates the parts list for the posted piping system.
// A brand in the body wins over the brand query parameter.
func (s *Server) handleHandleliste(w http.ResponseWriter, r *http.Request) {
	var req HandlelisteRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.rejectHandleliste(w, r, err)
		return
	}
	if err := s.validateStruct(&req); err != nil {
		s.rejectHandleliste(w, r, err)
		return
	}

	brandName := req.Brand
	if brandName == "" {
		brandName = r.URL.Query().Get("brand")
	}
	brand := s.cfg.Brand
	if brandName != "" {
		b, err := types.ParseBrand(brandName)
		if err != nil {
			s.rejectHandleliste(w, r, err)
			return
		}
		brand = b
	}

	resp, err := s.generator.Generate(req.System(), brand)
	if err != nil {
		s.rejectHandleliste(w, r, err)
		return
	}

	s.metrics.RecordHandleliste(len(resp.Items))
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) rejectHandleliste(w http.ResponseWriter, r *http.Request, err error) {
	reason := errorReason(err)
	s.metrics.RecordHandlelisteError(reason)
	s.logger.Debug("handleliste rejected",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("reason", reason),
		zap.Error(err))
	s.respondErr(w, r, err)
}
