// Package service loads the player catalog into dataset snapshots and hands
// out explorer sessions over the current snapshot to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/explorer"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/rules"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultPageSize        = 1000
	refreshShutdownTimeout = 30 * time.Second
	msPerSecond            = 1000
)

// Load outcome labels.
const (
	loadSuccess = "success"
	loadFailure = "failure"
)

// Source fetches raw catalog data from upstream.
type Source interface {
	Players(ctx context.Context) ([]map[string]any, error)
	Scores(ctx context.Context) (map[int]player.Scores, error)
	Fixtures(ctx context.Context, ids []int) (map[int]player.FixtureOutlook, error)
}

// Service implements the API dependencies for catalog exploration.
type Service struct {
	mu      sync.RWMutex
	loading sync.Mutex

	// Core components
	source Source
	store  repository.Store

	// Configuration
	rules           []rules.Rule
	rulesFile       string
	policy          player.Policy
	trendThreshold  float64
	pageSize        int
	refreshInterval time.Duration

	// State
	started   bool
	refresher *refresher
	lastErr   error
	lastLoad  time.Time
	warnings  int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRules replaces the built-in rule set.
func WithRules(rs []rules.Rule) Option {
	return func(s *Service) {
		if len(rs) > 0 {
			s.rules = rs
		}
	}
}

// WithRulesFile loads the rule set from a YAML file at Start.
func WithRulesFile(path string) Option {
	return func(s *Service) {
		s.rulesFile = path
	}
}

// WithCoercionPolicy sets how malformed upstream fields are reported.
func WithCoercionPolicy(p player.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithTrendThreshold sets the net transfer delta for rising/falling players.
func WithTrendThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold >= 0 {
			s.trendThreshold = threshold
		}
	}
}

// WithPageSize caps the players returned per view.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRefreshInterval enables periodic catalog reloads. Zero disables them.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service reading from src and publishing into store.
func New(src Source, store repository.Store, opts ...Option) *Service {
	s := &Service{
		source:         src,
		store:          store,
		rules:          rules.Default(),
		policy:         player.PolicySilent,
		trendThreshold: player.DefaultTrendThreshold,
		pageSize:       defaultPageSize,
		logger:         nil, // replaced in Start unless set
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the rule set and the first catalog snapshot, then starts the
// refresh loop. A failed first load is logged and left for Refresh to retry;
// an invalid rule set fails Start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting catalog service...")

	if s.rulesFile != "" {
		rs, err := rules.LoadFile(s.rulesFile)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("start service: %w", err)
		}
		s.rules = rs
		s.logger.Info(ctx, "rule set loaded",
			logger.String("file", s.rulesFile),
			logger.Int("rules", len(rs)))
	} else if err := rules.Validate(s.rules); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("start service: %w", err)
	}
	s.started = true
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error(ctx, "initial catalog load failed", logger.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshInterval > 0 {
		s.refresher = newRefresher(s.refreshInterval, s.Refresh, s.logger)
		go s.refresher.Run(ctx)
	}

	s.logger.Info(ctx, "catalog service started",
		logger.Int("rules", len(s.rules)),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

// Stop gracefully shuts down the refresh loop, waiting for an in-flight load.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.logger.Info(context.Background(), "stopping catalog service...")
	r := s.refresher
	s.refresher = nil
	s.started = false
	s.mu.Unlock()

	if r != nil {
		ctx, cancel := context.WithTimeout(context.Background(), refreshShutdownTimeout)
		if err := r.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "refresh loop did not stop cleanly", logger.Error(err))
		}
		cancel()
	}

	s.logger.Info(context.Background(), "catalog service stopped")
}

// Refresh fetches, normalizes and classifies the catalog and swaps the new
// snapshot in. Only the player list is mandatory: score and fixture failures
// leave those blocks at their defaults. Concurrent calls are rejected with
// ErrRefreshInProgress.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.isStarted() {
		return ErrNotStarted
	}
	if !s.loading.TryLock() {
		return ErrRefreshInProgress
	}
	defer s.loading.Unlock()

	start := time.Now()
	err := s.load(ctx)
	metrics.RecordCatalogLoadDuration(float64(time.Since(start).Microseconds()) / msPerSecond)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.lastLoad = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordCatalogLoad(loadFailure)
		return err
	}
	metrics.RecordCatalogLoad(loadSuccess)
	return nil
}

func (s *Service) load(ctx context.Context) error {
	raw, err := s.source.Players(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	players, warnings := player.Normalize(raw, player.WithPolicy(s.policy))
	for _, w := range warnings {
		metrics.RecordCoercionWarning(w.Field)
		s.logger.Warn(ctx, "coerced malformed field",
			logger.Int("playerID", w.PlayerID),
			logger.String("field", w.Field),
			logger.Any("raw", w.Raw),
		)
	}

	scores, err := s.source.Scores(ctx)
	if err != nil {
		metrics.RecordScoreFetchError()
		s.logger.Warn(ctx, "score fetch failed, scores default to zero", logger.Error(err))
	} else {
		players = player.MergeScores(players, scores)
	}

	outlooks, err := s.source.Fixtures(ctx, player.IDs(players))
	if err != nil {
		return fmt.Errorf("fetch fixtures: %w", err)
	}
	players = player.AttachFixtures(players, outlooks)

	s.mu.RLock()
	rs := s.rules
	s.mu.RUnlock()

	classifyStart := time.Now()
	data, err := explorer.NewDataset(players, rs, time.Now())
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}
	metrics.RecordClassifyDuration(float64(time.Since(classifyStart).Microseconds()) / msPerSecond)

	if err := s.store.Swap(ctx, data); err != nil {
		return fmt.Errorf("swap snapshot: %w", err)
	}

	s.mu.Lock()
	s.warnings = len(warnings)
	s.mu.Unlock()

	s.logger.Info(ctx, "catalog loaded",
		logger.Int("players", len(players)),
		logger.Int("withFixtures", withFixtures(players)),
		logger.Int("warnings", len(warnings)),
		logger.Int("teams", len(data.Teams)),
	)
	return nil
}

// Dataset returns the current snapshot.
func (s *Service) Dataset(ctx context.Context) (*explorer.Dataset, error) {
	d, err := s.store.Current(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotLoaded) {
			return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, s.lastError(err))
		}
		return nil, err
	}
	return d, nil
}

// Player returns one player from the current snapshot.
func (s *Service) Player(ctx context.Context, id int) (player.Player, error) {
	p, err := s.store.Player(ctx, id)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, repository.ErrNotLoaded):
		return player.Player{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, s.lastError(err))
	case errors.Is(err, repository.ErrNotFound):
		return player.Player{}, fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
	default:
		return player.Player{}, err
	}
}

// Explore opens a session over the current snapshot restored from values.
func (s *Service) Explore(ctx context.Context, values url.Values) (*explorer.Session, error) {
	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	threshold, pageSize, log := s.trendThreshold, s.pageSize, s.logger
	s.mu.RUnlock()
	if log == nil {
		log = logger.Nop()
	}

	session := explorer.NewSession(data,
		explorer.WithTrendThreshold(threshold),
		explorer.WithPageSize(pageSize),
		explorer.WithLogger(log.Named("session")),
	)
	if err := session.Restore(values); err != nil {
		return nil, err
	}
	return session, nil
}

// Rules returns the active rule set.
func (s *Service) Rules() []rules.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"rules":           len(s.rules),
		"pageSize":        s.pageSize,
		"refreshInterval": s.refreshInterval.String(),
		"players":         s.store.Count(ctx),
		"version":         s.store.Version(ctx),
		"warnings":        s.warnings,
	}
	if !s.lastLoad.IsZero() {
		stats["lastLoad"] = s.lastLoad.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// lastError prefers the recorded load failure over fallback.
func (s *Service) lastError(fallback error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastErr != nil {
		return s.lastErr
	}
	return fallback
}

func withFixtures(players []player.Player) int {
	n := 0
	for _, p := range players {
		if p.HasFixtures() {
			n++
		}
	}
	return n
}
