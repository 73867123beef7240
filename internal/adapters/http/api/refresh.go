package api

import (
	"net/http"
)

type refreshResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}

// RefreshHandler reloads the catalog on demand.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /api/refresh requests. It is the retry action
// for the catalog_unavailable state.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if err := h.deps.Refresh(r.Context()); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	data, err := h.deps.Dataset(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Status: "ok", Players: len(data.Players)})
}
