// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/explorer"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/preset"
	"github.com/okian/scout/internal/domain/rules"
	"github.com/okian/scout/pkg/logger"
)

// maxBodyBytes bounds filter patch request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Explore opens a session restored from the request's query parameters.
	Explore(ctx context.Context, values url.Values) (*explorer.Session, error)

	// Dataset returns the current catalog snapshot.
	Dataset(ctx context.Context) (*explorer.Dataset, error)

	// Player returns one player from the current snapshot.
	Player(ctx context.Context, id int) (player.Player, error)

	// Refresh reloads the catalog from upstream.
	Refresh(ctx context.Context) error

	// Rules returns the active classification rules.
	Rules() []rules.Rule
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	exploreHandler *ExploreHandler
	catalogHandler *CatalogHandler
	refreshHandler *RefreshHandler
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		exploreHandler: NewExploreHandler(deps),
		catalogHandler: NewCatalogHandler(deps),
		refreshHandler: NewRefreshHandler(deps),
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, RequestLogger(MetricsMiddleware(h, endpoint), s.logger))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /api/players", "players", s.exploreHandler.HandleView)
	route("POST /api/filter", "filter", s.exploreHandler.HandleFilter)
	route("POST /api/reset", "reset", s.exploreHandler.HandleReset)
	route("POST /api/presets/{id}", "apply_preset", s.exploreHandler.HandleApplyPreset)
	route("POST /api/toggle/{kind}/{value}", "toggle", s.exploreHandler.HandleToggle)

	route("GET /api/presets", "presets", s.catalogHandler.HandlePresets)
	route("GET /api/tags", "tags", s.catalogHandler.HandleTags)
	route("GET /api/players/{id}/tags", "player_tags", s.catalogHandler.HandlePlayerTags)

	route("POST /api/refresh", "refresh", s.refreshHandler.HandleRefresh)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and error code by its kind.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCatalogUnavailable):
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", err)
	case errors.Is(err, service.ErrRefreshInProgress):
		writeError(w, http.StatusConflict, "refresh_in_progress", err)
	case errors.Is(err, preset.ErrUnknownPreset):
		writeError(w, http.StatusNotFound, "unknown_preset", err)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrUnknownToggle):
		writeError(w, http.StatusBadRequest, "unknown_toggle", err)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
