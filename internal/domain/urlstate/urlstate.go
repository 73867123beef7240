// Package urlstate maps a filter model to query-string parameters and back.
//
// Encode omits every dimension still at its default, so the default model
// encodes to an empty query. Decode never fails: unknown parameters,
// unknown enum tokens and malformed ranges are dropped.
package urlstate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/scout/internal/domain/filter"
)

// Query parameter names.
const (
	ParamQuery        = "q"
	ParamPositions    = "pos"
	ParamTeams        = "team"
	ParamStatuses     = "status"
	ParamTags         = "tags"
	ParamPrice        = "price"
	ParamForm         = "form"
	ParamOwnership    = "own"
	ParamPoints       = "pts"
	ParamMinutes      = "mins"
	ParamXGI          = "xgi"
	ParamPPG          = "ppg"
	ParamGoalsAssists = "ga"
	ParamDifficulty   = "fdr"
	ParamTrend        = "trend"
	ParamVenue        = "venue"
	ParamSort         = "sort"
)

const listSep = ","

var rangeParams = map[filter.Dimension]string{
	filter.DimPrice:        ParamPrice,
	filter.DimForm:         ParamForm,
	filter.DimOwnership:    ParamOwnership,
	filter.DimPoints:       ParamPoints,
	filter.DimMinutes:      ParamMinutes,
	filter.DimXGI:          ParamXGI,
	filter.DimPPG:          ParamPPG,
	filter.DimGoalsAssists: ParamGoalsAssists,
	filter.DimDifficulty:   ParamDifficulty,
}

// Encode returns the parameters for every non-default dimension of m.
func Encode(m filter.Model) url.Values {
	m = m.Canonical()
	v := url.Values{}
	if !m.IsDefault(filter.DimQuery) {
		v.Set(ParamQuery, m.Query)
	}
	setList(v, ParamPositions, m.Positions)
	setList(v, ParamTeams, m.Teams)
	setList(v, ParamStatuses, m.Statuses)
	setList(v, ParamTags, m.Tags)
	for _, d := range filter.RangeDimensions {
		if m.IsDefault(d) {
			continue
		}
		r := m.Range(d)
		v.Set(rangeParams[d], formatFloat(r.Min)+listSep+formatFloat(r.Max))
	}
	if !m.IsDefault(filter.DimTrend) {
		v.Set(ParamTrend, string(m.Trend))
	}
	if !m.IsDefault(filter.DimVenue) {
		v.Set(ParamVenue, string(m.Venue))
	}
	if m.Sort != filter.SortForm {
		v.Set(ParamSort, string(m.Sort))
	}
	return v
}

// EncodeString returns Encode(m) as a query string without the leading "?".
func EncodeString(m filter.Model) string {
	return Encode(m).Encode()
}

// Option applies a configuration option to Decode.
type Option func(*decoder)

// WithKnownTags restricts decoded tags to the given vocabulary.
func WithKnownTags(ids []string) Option {
	return func(d *decoder) {
		d.tags = vocabulary(ids)
	}
}

// WithKnownTeams restricts decoded teams to the given vocabulary.
func WithKnownTeams(teams []string) Option {
	return func(d *decoder) {
		d.teams = vocabulary(teams)
	}
}

// ListSafe reports whether s survives a list parameter unchanged: it is
// non-blank, has no surrounding space and contains no separator.
func ListSafe(s string) bool {
	return s != "" && strings.TrimSpace(s) == s && !strings.Contains(s, listSep)
}

type decoder struct {
	tags  map[string]struct{}
	teams map[string]struct{}
}

func vocabulary(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}

// known filters tokens against vocab; a nil vocab keeps everything.
func known(tokens []string, vocab map[string]struct{}) []string {
	if vocab == nil {
		return tokens
	}
	var out []string
	for _, t := range tokens {
		if _, ok := vocab[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Decode builds a model from query parameters, starting from the default.
func Decode(values url.Values, opts ...Option) filter.Model {
	d := &decoder{}
	for _, opt := range opts {
		opt(d)
	}

	m := filter.Default()
	if q := values.Get(ParamQuery); strings.TrimSpace(q) != "" {
		m.Query = q
	}
	m.Positions = splitList(values, ParamPositions)
	m.Teams = known(splitList(values, ParamTeams), d.teams)
	m.Statuses = splitList(values, ParamStatuses)
	m.Tags = known(splitList(values, ParamTags), d.tags)
	for _, dim := range filter.RangeDimensions {
		if r, ok := parseRange(values.Get(rangeParams[dim])); ok {
			*m.Range(dim) = r
		}
	}
	if t := filter.Trend(values.Get(ParamTrend)); t.Valid() {
		m.Trend = t
	}
	if v := filter.Venue(values.Get(ParamVenue)); v.Valid() {
		m.Venue = v
	}
	if s := filter.SortKey(values.Get(ParamSort)); s.Valid() {
		m.Sort = s
	}
	return m.Canonical()
}

func setList(v url.Values, key string, items []string) {
	if len(items) == 0 {
		return
	}
	v.Set(key, strings.Join(items, listSep))
}

// splitList collects comma-separated tokens across repeated parameters.
func splitList(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, tok := range strings.Split(raw, listSep) {
			if tok = strings.TrimSpace(tok); tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

func parseRange(raw string) (filter.Range, bool) {
	lo, hi, ok := strings.Cut(raw, listSep)
	if !ok {
		return filter.Range{}, false
	}
	minV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return filter.Range{}, false
	}
	maxV, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return filter.Range{}, false
	}
	r := filter.Range{Min: minV, Max: maxV}
	return r, r.Valid()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
