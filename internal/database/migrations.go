package database

import (
	"mygamelist/internal/models"
)

// modelsToMigrate is ordered so every table follows the tables it references.
var modelsToMigrate = []any{
	&models.User{},
	&models.UserFollow{},
	&models.Game{},
	&models.GameUser{},
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := db.log.Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// HasGamesTable reports whether the games table already exists, which is
// when a duplicate sweep has something to do before the unique index lands.
func (db *DB) HasGamesTable() bool {
	return db.SQL.Migrator().HasTable(&models.Game{})
}

// CreateIndexes creates indexes GORM tags cannot express.
func (db *DB) CreateIndexes() error {
	log := db.log.Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_games_platforms_gin ON games USING GIN (platforms)",
		"CREATE INDEX IF NOT EXISTS idx_games_tags_gin ON games USING GIN (tags)",
		"CREATE INDEX IF NOT EXISTS idx_games_popularity ON games (ratings_count DESC, id_game_bd ASC)",
		"CREATE INDEX IF NOT EXISTS idx_game_users_user_created ON game_users (user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}

// DropModels drops every model table, dependents first.
func (db *DB) DropModels() error {
	log := db.log.Function("DropModels")

	for i := len(modelsToMigrate) - 1; i >= 0; i-- {
		if err := db.SQL.Migrator().DropTable(modelsToMigrate[i]); err != nil {
			return log.Err("Failed to drop table", err, "model", modelsToMigrate[i])
		}
	}

	log.Info("Dropped all model tables")
	return nil
}
