package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout    = 10 * time.Second
	defaultBatchSize  = 50
	defaultBatchDelay = 100 * time.Millisecond
	defaultHorizon    = 5
	maxErrorBody      = 512
	userAgent         = "scout/1.0"
)

// Batch outcome labels.
const (
	batchSuccess = "success"
	batchFailure = "failure"
)

// Client reads the upstream player catalog, scores and fixture outlooks.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration

	batchSize  int
	batchDelay time.Duration
	horizon    int
	limiter    *rate.Limiter

	log logger.Logger
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    defaultTimeout,
		batchSize:  defaultBatchSize,
		batchDelay: defaultBatchDelay,
		horizon:    defaultHorizon,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	limit := rate.Inf
	if c.batchDelay > 0 {
		limit = rate.Every(c.batchDelay)
	}
	c.limiter = rate.NewLimiter(limit, 1)
	c.log = c.log.Named("source")
	return c, nil
}

// Players returns the raw player records. Any failure wraps ErrCatalogUnavailable.
func (c *Client) Players(ctx context.Context) ([]map[string]any, error) {
	body, err := c.get(ctx, "/players", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode players: %w", ErrCatalogUnavailable, err)
	}
	c.log.Debug(ctx, "players fetched", logger.Int("count", len(records)))
	return records, nil
}

// Scores returns the score block per player id. Any failure wraps ErrScoresUnavailable.
func (c *Client) Scores(ctx context.Context) (map[int]player.Scores, error) {
	body, err := c.get(ctx, "/scores", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScoresUnavailable, err)
	}

	var raw map[string]player.Scores
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode scores: %w", ErrScoresUnavailable, err)
	}
	return byID(raw), nil
}

// Fixtures fetches fixture outlooks for ids in sequential, rate limited
// batches. A failed batch is logged and skipped; the others still count.
// The returned error is non-nil only when ctx ends the run early.
func (c *Client) Fixtures(ctx context.Context, ids []int) (map[int]player.FixtureOutlook, error) {
	out := make(map[int]player.FixtureOutlook, len(ids))
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))
		if err := c.limiter.Wait(ctx); err != nil {
			return out, err
		}

		batch, err := c.fixtureBatch(ctx, ids[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			metrics.RecordFixtureBatch(batchFailure)
			c.log.Warn(ctx, "fixture batch failed",
				logger.Int("offset", start),
				logger.Int("size", end-start),
				logger.Error(err))
			continue
		}
		metrics.RecordFixtureBatch(batchSuccess)
		for id, outlook := range batch {
			out[id] = outlook
		}
	}
	return out, nil
}

func (c *Client) fixtureBatch(ctx context.Context, ids []int) (map[int]player.FixtureOutlook, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	q := url.Values{}
	q.Set("ids", strings.Join(parts, ","))
	q.Set("horizon", strconv.Itoa(c.horizon))

	body, err := c.get(ctx, "/fixtures", q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixturesFailed, err)
	}
	var raw map[string]player.FixtureOutlook
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode fixtures: %w", ErrFixturesFailed, err)
	}
	return byID(raw), nil
}

// get performs a GET against path and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", path, err)
	}
	c.log.Debug(ctx, "upstream request",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// decodeRecords accepts either a bare array or an object wrapping it under
// "players" or "elements". An envelope's "teams" table resolves the numeric
// team of each record to its short code and name.
func decodeRecords(body []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	dec := func(b []byte, v any) error {
		d := json.NewDecoder(bytes.NewReader(b))
		d.UseNumber()
		return d.Decode(v)
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []map[string]any
		if err := dec(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var envelope struct {
		Players  json.RawMessage `json:"players"`
		Elements json.RawMessage `json:"elements"`
		Teams    []team          `json:"teams"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	inner := envelope.Players
	if len(inner) == 0 {
		inner = envelope.Elements
	}
	if len(inner) == 0 {
		return nil, errNoRecords
	}
	var records []map[string]any
	if err := dec(inner, &records); err != nil {
		return nil, err
	}
	resolveTeams(records, envelope.Teams)
	return records, nil
}

// team is one row of an envelope's team table.
type team struct {
	ID        int    `json:"id"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// resolveTeams fills team_short and team_name from the numeric team id.
// Records that already carry a short code are left alone.
func resolveTeams(records []map[string]any, teams []team) {
	if len(teams) == 0 {
		return
	}
	byTeam := make(map[int]team, len(teams))
	for _, t := range teams {
		byTeam[t.ID] = t
	}
	for _, r := range records {
		if short, _ := r["team_short"].(string); strings.TrimSpace(short) != "" {
			continue
		}
		n, ok := r["team"].(json.Number)
		if !ok {
			continue
		}
		id, err := n.Int64()
		if err != nil {
			continue
		}
		t, ok := byTeam[int(id)]
		if !ok {
			continue
		}
		r["team_short"] = t.ShortName
		if _, ok := r["team_name"]; !ok {
			r["team_name"] = t.Name
		}
	}
}

// byID converts string-keyed upstream maps, dropping keys that are not ids.
func byID[T any](raw map[string]T) map[int]T {
	out := make(map[int]T, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}
