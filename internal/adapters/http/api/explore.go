package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/scout/internal/domain/explorer"
	"github.com/okian/scout/internal/domain/filter"
)

// Toggle kinds accepted by POST /api/toggle/{kind}/{value}.
const (
	toggleTag      = "tag"
	togglePosition = "position"
	toggleTeam     = "team"
	toggleStatus   = "status"
)

// ExploreHandler serves views over the filter state carried in the query string.
// Each request restores a fresh session, applies at most one mutation and
// answers with the resulting view, whose query is the new canonical state.
type ExploreHandler struct {
	deps Dependencies
}

// NewExploreHandler creates a new explore handler.
func NewExploreHandler(deps Dependencies) *ExploreHandler {
	return &ExploreHandler{deps: deps}
}

// HandleView handles GET /api/players requests.
func (h *ExploreHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.view", nil)
}

// HandleFilter handles POST /api/filter requests. The body is a filter patch;
// an empty body leaves the state unchanged.
func (h *ExploreHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	const op = "api.filter"
	var patch filter.Patch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.serve(w, r, op, func(s *explorer.Session) error {
		s.SetFilter(patch)
		return nil
	})
}

// HandleReset handles POST /api/reset requests.
func (h *ExploreHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.reset", func(s *explorer.Session) error {
		s.Reset()
		return nil
	})
}

// HandleApplyPreset handles POST /api/presets/{id} requests.
func (h *ExploreHandler) HandleApplyPreset(w http.ResponseWriter, r *http.Request) {
	const op = "api.apply_preset"
	id := r.PathValue("id")
	h.serve(w, r, op, func(s *explorer.Session) error {
		return Wrap(op, s.ApplyPreset(id))
	})
}

// HandleToggle handles POST /api/toggle/{kind}/{value} requests. Unknown
// values are ignored; unknown kinds are rejected.
func (h *ExploreHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle"
	value := r.PathValue("value")

	var toggle func(s *explorer.Session)
	switch r.PathValue("kind") {
	case toggleTag:
		toggle = func(s *explorer.Session) { s.ToggleTag(value) }
	case togglePosition:
		toggle = func(s *explorer.Session) { s.TogglePosition(value) }
	case toggleTeam:
		toggle = func(s *explorer.Session) { s.ToggleTeam(value) }
	case toggleStatus:
		toggle = func(s *explorer.Session) { s.ToggleStatus(value) }
	default:
		writeFailure(w, NewKind(op, ErrUnknownToggle))
		return
	}

	h.serve(w, r, op, func(s *explorer.Session) error {
		toggle(s)
		return nil
	})
}

// serve restores a session from the request query, applies mutate and
// writes the view.
func (h *ExploreHandler) serve(w http.ResponseWriter, r *http.Request, op string, mutate func(*explorer.Session) error) {
	session, err := h.deps.Explore(r.Context(), r.URL.Query())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if mutate != nil {
		if err := mutate(session); err != nil {
			writeFailure(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, session.View())
}
