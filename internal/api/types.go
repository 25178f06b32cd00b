package api

import "github.com/mesh-intelligence/jobb/pkg/types"

// HandlelisteRequest is the body of POST /pid/handleliste.
type HandlelisteRequest struct {
	Components []string     `json:"components" validate:"required,dive,component"`
	Lines      []types.Line `json:"lines"`
	Brand      string       `json:"brand" validate:"omitempty,brand"`
}

// System converts the request into a piping system.
func (r *HandlelisteRequest) System() types.PipingSystem {
	components := make([]types.Component, len(r.Components))
	for i, c := range r.Components {
		components[i] = types.Component(c)
	}
	return types.PipingSystem{Components: components, Lines: r.Lines}
}

// StatusResponse is returned by GET /ping.
type StatusResponse struct {
	Status string `json:"status"`
}

// TextResponse carries extracted PDF text.
type TextResponse struct {
	Text string `json:"text"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
