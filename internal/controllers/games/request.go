package gamesController

import (
	"strings"
	"time"

	. "mygamelist/internal/models"
	"mygamelist/internal/types"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// GameRequest is the writable shape of a catalog entry. Field names follow
// the catalog's JSON so imported records can be posted unchanged.
type GameRequest struct {
	IDGameBD         int64             `json:"idGameBD"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Playtime         int               `json:"playtime"`
	Platforms        []string          `json:"platforms"`
	Stores           []string          `json:"stores"`
	Released         *string           `json:"released"`
	Rating           float64           `json:"rating"`
	Ratings          []RatingBreakdown `json:"ratings"`
	RatingsCount     int               `json:"ratings_count"`
	ReviewsTextCount int               `json:"reviews_text_count"`
	Added            int               `json:"added"`
	AddedByStatus    AddedByStatus     `json:"added_by_status"`
	Metacritic       *int              `json:"metacritic"`
	SuggestionsCount int               `json:"suggestions_count"`
	BackgroundImage  string            `json:"background_image"`
	Tags             []string          `json:"tags"`
	ESRBRating       *ESRBRating       `json:"esrb_rating"`
	ShortScreenshots []Screenshot      `json:"short_screenshots"`
}

func (r GameRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return types.NewFieldError("name", "is required")
	}
	if r.Playtime < 0 {
		return types.NewFieldError("playtime", "must not be negative")
	}
	if r.IDGameBD < 0 {
		return types.NewFieldError("idGameBD", "must be a positive integer")
	}
	if _, err := r.releasedDate(); err != nil {
		return err
	}
	return nil
}

func (r GameRequest) releasedDate() (*time.Time, error) {
	if r.Released == nil || strings.TrimSpace(*r.Released) == "" {
		return nil, nil
	}
	released := types.ParseReleased(*r.Released)
	if released == nil {
		return nil, types.NewFieldError("released", "must be a date (YYYY-MM-DD)")
	}
	return released, nil
}

// Apply copies every mutable field onto game. The catalog id is left alone.
func (r GameRequest) Apply(game *Game) error {
	released, err := r.releasedDate()
	if err != nil {
		return err
	}

	game.Name = strings.TrimSpace(r.Name)
	game.Description = r.Description
	game.Playtime = r.Playtime
	game.Platforms = pq.StringArray(r.Platforms)
	game.Stores = pq.StringArray(r.Stores)
	game.Tags = pq.StringArray(r.Tags)
	game.Released = released
	game.Rating = r.Rating
	game.Ratings = datatypes.JSONSlice[RatingBreakdown](r.Ratings)
	game.RatingsCount = r.RatingsCount
	game.ReviewsTextCount = r.ReviewsTextCount
	game.Added = r.Added
	game.AddedByStatus = r.AddedByStatus
	game.Metacritic = r.Metacritic
	game.SuggestionsCount = r.SuggestionsCount
	game.BackgroundImage = r.BackgroundImage
	game.ESRBRating = r.ESRBRating
	game.ShortScreenshots = datatypes.JSONSlice[Screenshot](r.ShortScreenshots)

	return nil
}
