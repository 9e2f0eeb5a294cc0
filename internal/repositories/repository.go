package repositories

import (
	"context"
	"errors"

	contextutil "mygamelist/internal/context"
	"mygamelist/internal/database"
	"mygamelist/internal/types"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

type Repository struct {
	Game     GameRepository
	User     UserRepository
	GameUser GameUserRepository
}

func New(db database.DB) Repository {
	return Repository{
		Game:     NewGameRepository(db),
		User:     NewUserRepository(db), // User repo needs cache for caching
		GameUser: NewGameUserRepository(db),
	}
}

func getDB(ctx context.Context, db database.DB) *gorm.DB {
	return contextutil.DBFromContext(ctx, db.SQL)
}

// translateError maps driver and ORM failures onto the shared sentinels.
func translateError(entity, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(entity)
	case isUniqueViolation(err):
		return types.Wrap(types.ErrConflict, entity+" already exists")
	case pgCode(err) == foreignKeyViolationCode || errors.Is(err, gorm.ErrForeignKeyViolated):
		return types.Wrap(types.ErrNotFound, "referenced record not found")
	default:
		return types.StorageError(op, err)
	}
}

func notFound(entity string) error {
	return types.Wrap(types.ErrNotFound, entity+" not found")
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == uniqueViolationCode
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}
