package models

import (
	"time"

	"mygamelist/internal/utils"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RatingBreakdown struct {
	ID      int     `json:"id"`
	Title   string  `json:"title"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

type ESRBRating struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type AddedByStatus struct {
	Yet     int64 `gorm:"type:bigint;not null;default:0" json:"yet"`
	Owned   int64 `gorm:"type:bigint;not null;default:0" json:"owned"`
	Beaten  int64 `gorm:"type:bigint;not null;default:0" json:"beaten"`
	ToPlay  int64 `gorm:"type:bigint;not null;default:0" json:"toplay"`
	Dropped int64 `gorm:"type:bigint;not null;default:0" json:"dropped"`
	Playing int64 `gorm:"type:bigint;not null;default:0" json:"playing"`
}

type Game struct {
	BaseUUIDModel
	IDGameBD         int64                                `gorm:"column:id_game_bd;type:bigint;not null;uniqueIndex:idx_games_id_game_bd" json:"idGameBD"`
	Name             string                               `gorm:"type:text;not null"                                                   json:"name"`
	SearchName       string                               `gorm:"type:text;not null;index:idx_games_search_name"                       json:"-"`
	Description      string                               `gorm:"type:text"                                                            json:"description"`
	Playtime         int                                  `gorm:"type:int;not null;default:0;index"                                    json:"playtime"`
	Platforms        pq.StringArray                       `gorm:"type:text[]"                                                          json:"platforms"`
	Stores           pq.StringArray                       `gorm:"type:text[]"                                                          json:"stores"`
	Released         *time.Time                           `gorm:"type:date;index"                                                      json:"released"`
	Rating           float64                              `gorm:"type:double precision;not null;default:0;index"                       json:"rating"`
	Ratings          datatypes.JSONSlice[RatingBreakdown] `gorm:"type:jsonb"                                                           json:"ratings"`
	RatingsCount     int                                  `gorm:"type:int;not null;default:0;index"                                    json:"ratings_count"`
	ReviewsTextCount int                                  `gorm:"type:int;not null;default:0"                                          json:"reviews_text_count"`
	Added            int                                  `gorm:"type:int;not null;default:0"                                          json:"added"`
	AddedByStatus    AddedByStatus                        `gorm:"embedded;embeddedPrefix:added_by_status_"                             json:"added_by_status"`
	Metacritic       *int                                 `gorm:"type:int"                                                             json:"metacritic"`
	SuggestionsCount int                                  `gorm:"type:int;not null;default:0"                                          json:"suggestions_count"`
	BackgroundImage  string                               `gorm:"type:text"                                                            json:"background_image"`
	Tags             pq.StringArray                       `gorm:"type:text[]"                                                          json:"tags"`
	ESRBRating       *ESRBRating                          `gorm:"type:jsonb;serializer:json"                                           json:"esrb_rating"`
	ShortScreenshots datatypes.JSONSlice[Screenshot]      `gorm:"type:jsonb"                                                           json:"short_screenshots"`
}

// BeforeSave keeps the folded search column in step with the display name.
func (g *Game) BeforeSave(tx *gorm.DB) error {
	g.SearchName = utils.NormalizeSearch(g.Name)
	return nil
}
