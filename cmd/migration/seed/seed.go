package seed

import (
	"time"

	"mygamelist/config"
	. "mygamelist/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedPassword = "password"

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func intPtr(i int) *int {
	return &i
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users, err := seedUsers(db, log)
	if err != nil {
		return log.Err("failed to seed users", err)
	}

	games, err := seedGames(db, log)
	if err != nil {
		return log.Err("failed to seed games", err)
	}

	if err := seedLibrary(db, users, games, log); err != nil {
		return log.Err("failed to seed library", err)
	}

	return nil
}

func seedUsers(db *gorm.DB, log logger.Logger) ([]User, error) {
	users := []User{
		{Username: "admin", Email: "admin@example.com", IsAdmin: true},
		{Username: "tester", Email: "test@example.com"},
		{Username: "ada", Email: "ada.lovelace@example.com"},
	}

	for i := range users {
		var existing User
		if err := db.First(&existing, "email = ?", users[i].Email).Error; err == nil {
			log.Info("User already exists", "username", existing.Username)
			users[i] = existing
			continue
		}

		if err := users[i].SetPassword(seedPassword); err != nil {
			return nil, err
		}
		log.Info("Seeding user", "username", users[i].Username)
		if err := db.Create(&users[i]).Error; err != nil {
			return nil, log.Err("failed to create user", err, "username", users[i].Username)
		}
	}

	return users, nil
}

func seedGames(db *gorm.DB, log logger.Logger) ([]Game, error) {
	games := []Game{
		{
			IDGameBD:     3498,
			Name:         "Grand Theft Auto V",
			Playtime:     74,
			Platforms:    pq.StringArray{"PC", "PlayStation 4", "Xbox One"},
			Stores:       pq.StringArray{"Steam", "PlayStation Store"},
			Released:     date(2013, time.September, 17),
			Rating:       4.47,
			RatingsCount: 6811,
			Metacritic:   intPtr(92),
			Tags:         pq.StringArray{"Singleplayer", "Open World"},
			ESRBRating:   &ESRBRating{ID: 4, Name: "Mature"},
			AddedByStatus: AddedByStatus{
				Yet: 516, Owned: 11789, Beaten: 6330, ToPlay: 597, Dropped: 1044, Playing: 701,
			},
		},
		{
			IDGameBD:     3328,
			Name:         "The Witcher 3: Wild Hunt",
			Playtime:     46,
			Platforms:    pq.StringArray{"PC", "PlayStation 4", "Nintendo Switch"},
			Stores:       pq.StringArray{"GOG", "Steam"},
			Released:     date(2015, time.May, 18),
			Rating:       4.66,
			RatingsCount: 6532,
			Metacritic:   intPtr(92),
			Tags:         pq.StringArray{"Singleplayer", "RPG", "Open World"},
			ESRBRating:   &ESRBRating{ID: 4, Name: "Mature"},
			AddedByStatus: AddedByStatus{
				Yet: 1015, Owned: 6411, Beaten: 4181, ToPlay: 748, Dropped: 1101, Playing: 616,
			},
		},
		{
			IDGameBD:     4200,
			Name:         "Portal 2",
			Playtime:     11,
			Platforms:    pq.StringArray{"PC", "Xbox 360"},
			Stores:       pq.StringArray{"Steam"},
			Released:     date(2011, time.April, 18),
			Rating:       4.61,
			RatingsCount: 5546,
			Metacritic:   intPtr(95),
			Tags:         pq.StringArray{"Singleplayer", "Co-op", "Puzzle"},
			ESRBRating:   &ESRBRating{ID: 2, Name: "Everyone 10+"},
			AddedByStatus: AddedByStatus{
				Yet: 575, Owned: 11003, Beaten: 5479, ToPlay: 353, Dropped: 549, Playing: 316,
			},
		},
		{
			IDGameBD:     422,
			Name:         "Terraria",
			Playtime:     54,
			Platforms:    pq.StringArray{"PC", "Nintendo Switch"},
			Stores:       pq.StringArray{"Steam", "Nintendo Store"},
			Released:     date(2011, time.May, 16),
			Rating:       4.06,
			RatingsCount: 2153,
			Metacritic:   intPtr(83),
			Tags:         pq.StringArray{"Sandbox", "Co-op"},
			ESRBRating:   &ESRBRating{ID: 3, Name: "Teen"},
		},
	}

	for i := range games {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id_game_bd"}},
			DoNothing: true,
		}).Create(&games[i]).Error
		if err != nil {
			return nil, log.Err("failed to create game", err, "idGameBD", games[i].IDGameBD)
		}

		if err := db.First(&games[i], "id_game_bd = ?", games[i].IDGameBD).Error; err != nil {
			return nil, err
		}
		log.Info("Seeded game", "name", games[i].Name)
	}

	return games, nil
}

func seedLibrary(db *gorm.DB, users []User, games []Game, log logger.Logger) error {
	comment := "Replaying with the next-gen patch."
	entries := []GameUser{
		{UserID: users[1].ID, GameID: games[1].ID, Hours: decimal.RequireFromString("120.5"), Status: StatusBeaten, Rating: 9.5, Comment: &comment},
		{UserID: users[1].ID, GameID: games[2].ID, Hours: decimal.NewFromInt(9), Status: StatusPlaying, Rating: 8},
		{UserID: users[2].ID, GameID: games[3].ID, Hours: decimal.NewFromInt(300), Status: StatusDropped, Rating: 6},
	}

	for i := range entries {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
			DoNothing: true,
		}).Create(&entries[i]).Error
		if err != nil {
			return log.Err("failed to create library entry", err, "userID", entries[i].UserID)
		}
	}

	log.Info("Seeded library entries", "count", len(entries))
	return nil
}
