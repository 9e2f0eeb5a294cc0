package types

import (
	"math"
	"strconv"
	"strings"
	"time"

	"mygamelist/internal/models"
)

const (
	DefaultTopGamesLimit = 10
	CandidateMultiplier  = 2
	ReleasedDateLayout   = "2006-01-02"
)

type FilterField string

const (
	FieldPlatforms FilterField = "platforms"
	FieldTags      FilterField = "tags"
	FieldRating    FilterField = "rating"
	FieldReleased  FilterField = "released"
)

type ClauseKind int

const (
	// ClauseContains matches when a list column holds the value.
	ClauseContains ClauseKind = iota
	// ClauseAtLeast is an inclusive lower bound.
	ClauseAtLeast
)

type GameClause struct {
	Field FilterField
	Kind  ClauseKind
	Text  string
	Float float64
	Time  time.Time
}

// Bound is the comparison value of an at-least clause.
func (c GameClause) Bound() any {
	if c.Field == FieldReleased {
		return c.Time
	}
	return c.Float
}

// GameFilter is an immutable conjunction of clauses.
type GameFilter struct {
	clauses []GameClause
}

func (f GameFilter) Clauses() []GameClause {
	out := make([]GameClause, len(f.clauses))
	copy(out, f.clauses)
	return out
}

type GameFilterBuilder struct {
	clauses []GameClause
}

func NewGameFilter() *GameFilterBuilder {
	return &GameFilterBuilder{}
}

func (b *GameFilterBuilder) Platform(name string) *GameFilterBuilder {
	if name = strings.TrimSpace(name); name != "" {
		b.clauses = append(b.clauses, GameClause{Field: FieldPlatforms, Kind: ClauseContains, Text: name})
	}
	return b
}

func (b *GameFilterBuilder) Tag(name string) *GameFilterBuilder {
	if name = strings.TrimSpace(name); name != "" {
		b.clauses = append(b.clauses, GameClause{Field: FieldTags, Kind: ClauseContains, Text: name})
	}
	return b
}

func (b *GameFilterBuilder) MinRating(rating *float64) *GameFilterBuilder {
	if rating != nil {
		b.clauses = append(b.clauses, GameClause{Field: FieldRating, Kind: ClauseAtLeast, Float: *rating})
	}
	return b
}

func (b *GameFilterBuilder) ReleasedSince(date *time.Time) *GameFilterBuilder {
	if date != nil {
		b.clauses = append(b.clauses, GameClause{Field: FieldReleased, Kind: ClauseAtLeast, Time: *date})
	}
	return b
}

func (b *GameFilterBuilder) Build() GameFilter {
	clauses := make([]GameClause, len(b.clauses))
	copy(clauses, b.clauses)
	return GameFilter{clauses: clauses}
}

// TopGamesParams carries the raw query values of a top games request.
type TopGamesParams struct {
	Limit    string
	Platform string
	Tag      string
	Rating   string
	Released string
}

// ParseLimit falls back to the default for missing or non positive input
// and clamps to max.
func ParseLimit(raw string, max int) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		limit = DefaultTopGamesLimit
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}

// ParseRating returns nil when raw is empty or not a finite number.
func ParseRating(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// ParseReleased accepts a calendar date or an RFC3339 timestamp.
func ParseReleased(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{ReleasedDateLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}

// Filter builds the conjunctive predicate for the request, ignoring values
// that do not parse.
func (p TopGamesParams) Filter() GameFilter {
	return NewGameFilter().
		Platform(p.Platform).
		Tag(p.Tag).
		MinRating(ParseRating(p.Rating)).
		ReleasedSince(ParseReleased(p.Released)).
		Build()
}

type FacetSet struct {
	Platforms         []string             `json:"platforms"`
	Tags              []string             `json:"tags"`
	Stores            []string             `json:"stores"`
	ESRBRatings       []string             `json:"esrbRatings"`
	ReleaseYears      []int                `json:"releaseYears"`
	UserRatings       []float64            `json:"userRatings"`
	MetacriticRatings []int                `json:"metacriticRatings"`
	PlaytimeRanges    []int                `json:"playtimeRanges"`
	AddedByStatus     models.AddedByStatus `json:"addedByStatus"`
}

// EmptyFacetSet has every list allocated so it serializes as [] not null.
func EmptyFacetSet() FacetSet {
	return FacetSet{
		Platforms:         []string{},
		Tags:              []string{},
		Stores:            []string{},
		ESRBRatings:       []string{},
		ReleaseYears:      []int{},
		UserRatings:       []float64{},
		MetacriticRatings: []int{},
		PlaytimeRanges:    []int{},
	}
}
