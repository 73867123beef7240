package filter

import "slices"

// Patch is a partial Model. Nil fields leave the target untouched; a
// non-nil empty set clears it.
type Patch struct {
	Query     *string  `json:"query,omitempty"`
	Positions []string `json:"positions,omitempty"`
	Teams     []string `json:"teams,omitempty"`
	Statuses  []string `json:"statuses,omitempty"`
	Tags      []string `json:"tags,omitempty"`

	Price        *Range `json:"price,omitempty"`
	Form         *Range `json:"form,omitempty"`
	Ownership    *Range `json:"ownership,omitempty"`
	Points       *Range `json:"points,omitempty"`
	Minutes      *Range `json:"minutes,omitempty"`
	XGI          *Range `json:"xgi,omitempty"`
	PPG          *Range `json:"ppg,omitempty"`
	GoalsAssists *Range `json:"goals_assists,omitempty"`
	Difficulty   *Range `json:"difficulty,omitempty"`

	Trend *Trend   `json:"trend,omitempty"`
	Venue *Venue   `json:"venue,omitempty"`
	Sort  *SortKey `json:"sort,omitempty"`
}

// Apply overlays p onto m and returns the canonical result. m is not modified.
func (m Model) Apply(p Patch) Model {
	if p.Query != nil {
		m.Query = *p.Query
	}
	if p.Positions != nil {
		m.Positions = slices.Clone(p.Positions)
	}
	if p.Teams != nil {
		m.Teams = slices.Clone(p.Teams)
	}
	if p.Statuses != nil {
		m.Statuses = slices.Clone(p.Statuses)
	}
	if p.Tags != nil {
		m.Tags = slices.Clone(p.Tags)
	}
	for _, d := range RangeDimensions {
		if r := p.rangeFor(d); r != nil {
			*m.Range(d) = *r
		}
	}
	if p.Trend != nil {
		m.Trend = *p.Trend
	}
	if p.Venue != nil {
		m.Venue = *p.Venue
	}
	if p.Sort != nil {
		m.Sort = *p.Sort
	}
	return m.Canonical()
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	if p.Query != nil || p.Positions != nil || p.Teams != nil || p.Statuses != nil || p.Tags != nil {
		return false
	}
	for _, d := range RangeDimensions {
		if p.rangeFor(d) != nil {
			return false
		}
	}
	return p.Trend == nil && p.Venue == nil && p.Sort == nil
}

func (p Patch) rangeFor(d Dimension) *Range {
	switch d {
	case DimPrice:
		return p.Price
	case DimForm:
		return p.Form
	case DimOwnership:
		return p.Ownership
	case DimPoints:
		return p.Points
	case DimMinutes:
		return p.Minutes
	case DimXGI:
		return p.XGI
	case DimPPG:
		return p.PPG
	case DimGoalsAssists:
		return p.GoalsAssists
	case DimDifficulty:
		return p.Difficulty
	}
	return nil
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
