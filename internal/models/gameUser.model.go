package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LibraryStatus int

const (
	StatusYet LibraryStatus = iota
	StatusPlaying
	StatusBeaten
	StatusDropped
)

const (
	MaxCommentLength = 1000
	MaxLibraryRating = 10
)

func (s LibraryStatus) Valid() bool {
	return s >= StatusYet && s <= StatusDropped
}

func (s LibraryStatus) String() string {
	switch s {
	case StatusYet:
		return "yet"
	case StatusPlaying:
		return "playing"
	case StatusBeaten:
		return "beaten"
	case StatusDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// GameUser is one library entry: a user's tracking record for one game.
type GameUser struct {
	BaseUUIDModel
	UserID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_game"                                  json:"userId"`
	User    *User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"                json:"user,omitempty"`
	GameID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_game;index"                            json:"gameId"`
	Game    *Game           `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"                json:"game,omitempty"`
	Hours   decimal.Decimal `gorm:"type:decimal(10,2);not null"                                                   json:"hours"`
	Status  LibraryStatus   `gorm:"type:smallint;not null;default:0;check:chk_game_users_status,status BETWEEN 0 AND 3" json:"status"`
	Rating  float64         `gorm:"type:double precision;not null"                                                json:"rating"`
	Comment *string         `gorm:"type:text"                                                                     json:"comment,omitempty"`
}
