package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

func (s *Server) handleGetFitting(w http.ResponseWriter, r *http.Request) {
	f, err := s.registry.GetFitting(r.Context(), r.PathValue("code"))
	if errors.Is(err, types.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Fitting not found")
		return
	}
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, f)
}

// handleCreateFitting inserts or replaces a fitting and returns the stored
// record.
func (s *Server) handleCreateFitting(w http.ResponseWriter, r *http.Request) {
	var f types.Fitting
	if err := s.decodeJSON(w, r, &f); err != nil {
		s.metrics.RecordFittingWrite("invalid")
		s.respondErr(w, r, err)
		return
	}
	if err := s.validateStruct(&f); err != nil {
		s.metrics.RecordFittingWrite("invalid")
		s.respondErr(w, r, err)
		return
	}
	if err := s.registry.SetFitting(r.Context(), &f); err != nil {
		if statusFor(err) == http.StatusBadRequest {
			s.metrics.RecordFittingWrite("invalid")
		} else {
			s.metrics.RecordFittingWrite("error")
		}
		s.respondErr(w, r, err)
		return
	}

	stored, err := s.registry.GetFitting(r.Context(), f.Code)
	if err != nil {
		s.metrics.RecordFittingWrite("error")
		s.respondErr(w, r, err)
		return
	}
	s.metrics.RecordFittingWrite("success")
	s.respondJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListFittings(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	fittings, err := s.registry.FetchFittings(r.Context(), filter)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if fittings == nil {
		fittings = []*types.Fitting{}
	}
	s.respondJSON(w, http.StatusOK, fittings)
}

func parseFilter(r *http.Request) (types.Filter, error) {
	q := r.URL.Query()
	filter := types.Filter{}
	for _, key := range []string{types.FilterSeries, types.FilterMaterial} {
		if v := q.Get(key); v != "" {
			filter[key] = v
		}
	}
	for _, key := range []string{types.FilterLimit, types.FilterOffset} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative integer", types.ErrInvalidFilter, key)
		}
		filter[key] = n
	}
	return filter, nil
}
