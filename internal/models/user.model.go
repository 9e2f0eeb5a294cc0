package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordHashCost = 10
)

type User struct {
	BaseUUIDModel
	Username string `gorm:"type:text;not null;uniqueIndex"   json:"username"`
	Email    string `gorm:"type:text;not null;uniqueIndex"   json:"email"`
	Password string `gorm:"type:text;not null"               json:"-"`
	IsAdmin  bool   `gorm:"type:bool;not null;default:false" json:"isAdmin"`
}

// UserFollow is one edge of the follow graph. The composite key makes a
// repeated follow a no-op.
type UserFollow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"                                        json:"followerId"`
	FollowedID uuid.UUID `gorm:"type:uuid;primaryKey;index"                                  json:"followedId"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime"                                              json:"createdAt"`
}

type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordHashCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// ToProfile converts a User to its public profile. Follow ids are supplied by
// the caller since they live in a separate table.
func (u *User) ToProfile(followers, following []uuid.UUID) UserProfile {
	return UserProfile{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Followers: uuidStrings(followers),
		Following: uuidStrings(following),
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) ToSummary() UserSummary {
	return UserSummary{ID: u.ID.String(), Username: u.Username}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
