// Package explorer owns the mutable side of player exploration: a Session
// holds the only live filter model over an immutable Dataset and re-runs
// the pure evaluator and facet engine on demand.
//
// State leaves a session in one direction only. The query string is decoded
// once by Restore; after that every mutation publishes the freshly encoded
// query on Updates, and nothing is ever decoded again.
package explorer

import (
	"context"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scout/internal/domain/facet"
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/rules"
	"github.com/okian/scout/internal/domain/urlstate"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Default session configuration constants.
const (
	defaultPageSize = 1000
	msPerSecond     = 1000
)

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithTrendThreshold sets the net transfer delta bucketing rising/falling players.
func WithTrendThreshold(threshold float64) Option {
	return func(s *Session) {
		if threshold >= 0 {
			s.trendThreshold = threshold
		}
	}
}

// WithPageSize caps the number of players returned by View.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// View is the derived, read-only result of the current model.
type View struct {
	Players       []player.Player `json:"players"`
	Facets        facet.Counts    `json:"facets"`
	ActiveFilters int             `json:"active_filters"`
	Query         string          `json:"query"`
	Total         int             `json:"total"`
	Filter        filter.Model    `json:"filter"`
}

// Session is a single user's exploration state. It is not safe for
// concurrent use; the Dataset it reads is.
type Session struct {
	id       string
	data     *Dataset
	model    filter.Model
	restored bool
	updates  chan string

	trendThreshold float64
	pageSize       int
	log            logger.Logger
}

// NewSession starts a session at the default model.
func NewSession(data *Dataset, opts ...Option) *Session {
	s := &Session{
		id:             uuid.NewString(),
		data:           data,
		model:          filter.Default(),
		updates:        make(chan string, 1),
		trendThreshold: player.DefaultTrendThreshold,
		pageSize:       defaultPageSize,
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.String("session_id", s.id))
	return s
}

// ID returns the session's correlation id.
func (s *Session) ID() string {
	return s.id
}

// Restore decodes the initial state from query parameters. It may run once,
// before any mutation; later calls return ErrAlreadyRestored. Restore does
// not publish an update.
func (s *Session) Restore(values url.Values) error {
	if s.restored {
		return ErrAlreadyRestored
	}
	s.restored = true
	s.model = s.data.Known(urlstate.Decode(values,
		urlstate.WithKnownTags(rules.IDs(s.data.Rules)),
		urlstate.WithKnownTeams(s.data.Teams),
	))
	s.log.Debug(context.Background(), "session restored", logger.Int("active_filters", filter.ActiveCount(s.model)))
	return nil
}

// SetFilter merges patch into the live model. Tags and teams the dataset
// does not know are dropped. An empty patch neither mutates nor publishes.
func (s *Session) SetFilter(patch filter.Patch) {
	if patch.IsEmpty() {
		return
	}
	s.commit(s.model.Apply(patch))
}

// Reset restores the default model; the published query is empty.
func (s *Session) Reset() {
	s.commit(filter.Default())
}

// ApplyPreset replaces the live model with the preset's model.
func (s *Session) ApplyPreset(id string) error {
	p, err := s.data.Presets.Get(id)
	if err != nil {
		return err
	}
	metrics.RecordPresetApplied(id)
	s.commit(filter.Default().Apply(p.Patch))
	return nil
}

// ToggleTag adds or removes a rule id from the active tags. Unknown ids are ignored.
func (s *Session) ToggleTag(id string) {
	if _, ok := s.data.Rule(id); !ok {
		return
	}
	s.commit(s.model.Apply(filter.Patch{Tags: nonNil(filter.Toggle(s.model.Tags, id))}))
}

// TogglePosition adds or removes a position. Unknown positions are ignored.
func (s *Session) TogglePosition(pos string) {
	p, ok := player.ParsePosition(pos)
	if !ok {
		return
	}
	s.commit(s.model.Apply(filter.Patch{Positions: nonNil(filter.Toggle(s.model.Positions, string(p)))}))
}

// ToggleTeam adds or removes a team code. Unknown teams are ignored.
func (s *Session) ToggleTeam(team string) {
	if !s.data.KnownTeam(team) {
		return
	}
	s.commit(s.model.Apply(filter.Patch{Teams: nonNil(filter.Toggle(s.model.Teams, team))}))
}

// ToggleStatus adds or removes an availability category. Unknown values are ignored.
func (s *Session) ToggleStatus(status string) {
	if !slices.Contains(player.Availabilities, player.Availability(status)) {
		return
	}
	s.commit(s.model.Apply(filter.Patch{Statuses: nonNil(filter.Toggle(s.model.Statuses, status))}))
}

// SetSort changes the sort key; unknown keys fall back to form.
func (s *Session) SetSort(key filter.SortKey) {
	s.commit(s.model.Apply(filter.Patch{Sort: &key}))
}

// Model returns a copy of the live model.
func (s *Session) Model() filter.Model {
	m := s.model
	m.Positions = cloneSet(m.Positions)
	m.Teams = cloneSet(m.Teams)
	m.Statuses = cloneSet(m.Statuses)
	m.Tags = cloneSet(m.Tags)
	return m
}

// Query returns the encoded live model.
func (s *Session) Query() string {
	return urlstate.EncodeString(s.model)
}

// Updates delivers the encoded query after each mutation. Only the latest
// value is retained when the consumer lags.
func (s *Session) Updates() <-chan string {
	return s.updates
}

// View evaluates, sorts and facets the live model.
func (s *Session) View() View {
	match := filter.WithTrendThreshold(s.trendThreshold)

	start := time.Now()
	visible := filter.Sort(filter.Evaluate(s.data.Players, s.model, s.data.Cache, match), s.model.Sort)
	metrics.RecordEvaluateDuration(float64(time.Since(start).Microseconds()) / msPerSecond)

	start = time.Now()
	counts := facet.Compute(s.data.Players, s.model, s.data.Cache, s.data.Presets.List(),
		facet.WithMatchOptions(match),
		facet.WithTags(rules.IDs(s.data.Rules)),
	)
	metrics.RecordFacetDuration(float64(time.Since(start).Microseconds()) / msPerSecond)
	metrics.RecordVisiblePlayers(len(visible))

	total := len(visible)
	if total > s.pageSize {
		visible = visible[:s.pageSize]
	}
	return View{
		Players:       visible,
		Facets:        counts,
		ActiveFilters: filter.ActiveCount(s.model),
		Query:         s.Query(),
		Total:         total,
		Filter:        s.Model(),
	}
}

// commit installs m, seals Restore and publishes the encoded query.
func (s *Session) commit(m filter.Model) {
	m = s.data.Known(m)
	s.restored = true
	s.model = m
	q := urlstate.EncodeString(m)
	select {
	case <-s.updates:
	default:
	}
	s.updates <- q
	s.log.Debug(context.Background(), "filter updated", logger.String("query", q))
}

// nonNil keeps an emptied set distinguishable from "untouched" in a Patch.
func nonNil(set []string) []string {
	if set == nil {
		return []string{}
	}
	return set
}

func cloneSet(set []string) []string {
	if set == nil {
		return nil
	}
	out := make([]string, len(set))
	copy(out, set)
	return out
}
