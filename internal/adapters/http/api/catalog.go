package api

import (
	"errors"
	"net/http"
	"strconv"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/preset"
	"github.com/okian/scout/internal/domain/rules"
	"github.com/okian/scout/internal/domain/urlstate"
)

// presetResponse is a preset with the query string it resolves to.
type presetResponse struct {
	preset.Preset
	Query string `json:"query"`
}

// tagResponse describes a classification rule.
type tagResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Players     int    `json:"players"`
}

// matchedTag is one satisfied rule with the conditions that held.
type matchedTag struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Icon    string   `json:"icon,omitempty"`
	Reasons []string `json:"reasons"`
}

type playerTagsResponse struct {
	PlayerID int          `json:"player_id"`
	WebName  string       `json:"web_name"`
	Tags     []matchedTag `json:"tags"`
}

// CatalogHandler serves the preset and tag vocabularies.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandlePresets handles GET /api/presets requests.
func (h *CatalogHandler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	const op = "api.presets"
	data, err := h.deps.Dataset(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	list := data.Presets.List()
	out := make([]presetResponse, len(list))
	for i, p := range list {
		out[i] = presetResponse{Preset: p, Query: urlstate.EncodeString(preset.Apply(p))}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": out})
}

// HandleTags handles GET /api/tags requests. Player counts are zero until
// the catalog loads.
func (h *CatalogHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	rs := h.deps.Rules()
	counts := map[string]int{}
	if data, err := h.deps.Dataset(r.Context()); err == nil {
		rs = data.Rules
		counts = data.Cache.Counts()
	}

	out := make([]tagResponse, len(rs))
	for i, rule := range rs {
		out[i] = tagResponse{
			ID:          rule.ID,
			Name:        rule.Name,
			Icon:        rule.Icon,
			Description: rule.Description,
			Summary:     rule.Summary(),
			Players:     counts[rule.ID],
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": out})
}

// HandlePlayerTags handles GET /api/players/{id}/tags requests.
func (h *CatalogHandler) HandlePlayerTags(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_tags"
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	data, err := h.deps.Dataset(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	p, err := h.deps.Player(r.Context(), id)
	if errors.Is(err, service.ErrPlayerNotFound) {
		writeFailure(w, WrapKind(op, ErrNotFound, err))
		return
	}
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	tags := make([]matchedTag, 0)
	for _, tag := range data.Cache.Tags(id) {
		rule, ok := rules.Find(data.Rules, tag)
		if !ok {
			continue
		}
		tags = append(tags, matchedTag{
			ID:      rule.ID,
			Name:    rule.Name,
			Icon:    rule.Icon,
			Reasons: rules.Explain(rule, p),
		})
	}
	writeJSON(w, http.StatusOK, playerTagsResponse{PlayerID: p.ID, WebName: p.WebName, Tags: tags})
}
