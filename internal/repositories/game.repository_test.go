package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"mygamelist/internal/models"
	"mygamelist/internal/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGameRepository_FindTopByPopularity(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	rating := 4.0
	filter := types.NewGameFilter().Platform("PC").MinRating(&rating).Build()

	rows := sqlmock.NewRows([]string{"id", "id_game_bd", "name", "rating", "ratings_count"}).
		AddRow(uuid.New().String(), 1, "A", 4.2, 900).
		AddRow(uuid.New().String(), 2, "B", 4.8, 800)

	// Five requested results pull ten popularity candidates.
	mock.ExpectQuery(`SELECT \* FROM "games" WHERE \$1 = ANY\(platforms\) AND rating >= \$2 ORDER BY ratings_count DESC,\s*id_game_bd ASC LIMIT \$3$`).
		WithArgs("PC", 4.0, 10).
		WillReturnRows(rows)

	games, err := repo.FindTopByPopularity(context.Background(), filter, 5)

	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "A", games[0].Name)
	assert.Equal(t, int64(2), games[1].IDGameBD)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_FindTopByPopularity_ClauseKinds(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := types.NewGameFilter().Tag("RPG").ReleasedSince(&since).Build()

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE \$1 = ANY\(tags\) AND released >= \$2 ORDER BY ratings_count DESC,\s*id_game_bd ASC LIMIT \$3$`).
		WithArgs("RPG", since, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := repo.FindTopByPopularity(context.Background(), filter, 1)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyClause_IgnoresUnknownColumns(t *testing.T) {
	db, mock := setupTestDB(t)

	query := db.SQL.Session(&gorm.Session{DryRun: true}).Model(&models.Game{})
	query = applyClause(query, types.GameClause{Field: "name; DROP TABLE games", Kind: types.ClauseAtLeast})
	query = applyClause(query, types.GameClause{Field: types.FieldRating, Kind: types.ClauseContains, Text: "x"})

	stmt := query.Find(&[]models.Game{}).Statement
	assert.NotContains(t, stmt.SQL.String(), "WHERE")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_FindTopByPopularity_StorageError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "games"`).WillReturnError(errors.New("connection refused"))

	games, err := repo.FindTopByPopularity(context.Background(), types.GameFilter{}, 10)

	assert.Nil(t, games)
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_SearchByName_EscapesPattern(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE search_name LIKE \$1 ESCAPE '\\' ORDER BY name ASC`).
		WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	games, err := repo.SearchByName(context.Background(), "100%")

	require.NoError(t, err)
	assert.Empty(t, games)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_SearchByName_EmptyListsAll(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "games" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(uuid.New().String(), "Celeste").
			AddRow(uuid.New().String(), "Hades"))

	games, err := repo.SearchByName(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, games, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	game, err := repo.GetByID(context.Background(), uuid.New())

	assert.Nil(t, game)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewGameRepository(db)

		mock.ExpectExec(`DELETE FROM "games" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewGameRepository(db)

		mock.ExpectExec(`DELETE FROM "games" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameRepository_DistinctArrayValues(t *testing.T) {
	t.Run("unknown column is rejected before querying", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewGameRepository(db)

		values, err := repo.DistinctArrayValues(context.Background(), ArrayColumn("name; DROP TABLE games"))

		assert.Nil(t, values)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("platforms", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewGameRepository(db)

		mock.ExpectQuery(`SELECT DISTINCT value FROM games, unnest\(platforms\) AS value`).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("PC").AddRow("PlayStation 5"))

		values, err := repo.DistinctArrayValues(context.Background(), PlatformsColumn)

		require.NoError(t, err)
		assert.Equal(t, []string{"PC", "PlayStation 5"}, values)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields an empty list", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewGameRepository(db)

		mock.ExpectQuery(`unnest\(tags\)`).WillReturnRows(sqlmock.NewRows([]string{"value"}))

		values, err := repo.DistinctArrayValues(context.Background(), TagsColumn)

		require.NoError(t, err)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})
}

func TestGameRepository_DistinctReleaseDates(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	first := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2020, 11, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT DISTINCT released FROM games WHERE released IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(first).AddRow(second))

	dates, err := repo.DistinctReleaseDates(context.Background())

	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, first.Equal(dates[0]))
	assert.True(t, second.Equal(dates[1]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_SumAddedByStatus(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectQuery(`COALESCE\(SUM\(added_by_status_yet\), 0\) AS yet`).
		WillReturnRows(sqlmock.NewRows([]string{"yet", "owned", "beaten", "to_play", "dropped", "playing"}).
			AddRow(1, 2, 3, 4, 5, 6))

	totals, err := repo.SumAddedByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Yet)
	assert.Equal(t, int64(4), totals.ToPlay)
	assert.Equal(t, int64(6), totals.Playing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_RemoveDuplicates(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectExec(`DELETE FROM games WHERE id IN \(\s*SELECT id FROM \(\s*SELECT id, ROW_NUMBER\(\) OVER`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.RemoveDuplicates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
