package database

import (
	"context"
	"testing"
	"time"

	"mygamelist/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, USER_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{log: log}

	assert.NotNil(t, db)
	assert.Nil(t, db.SQL)
	assert.Nil(t, db.Cache.General)
	assert.NoError(t, db.FlushAllCaches())
	assert.NoError(t, db.Close())
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "db",
		DatabasePort:     5432,
		DatabaseUser:     "games",
		DatabasePassword: "secret",
		DatabaseName:     "mygamelist",
	})

	assert.Equal(t,
		"host=db port=5432 user=games password=secret dbname=mygamelist sslmode=disable TimeZone=UTC",
		dsn,
	)
}

func TestCacheBuilder_NilClient(t *testing.T) {
	builder := NewCacheBuilder(nil, "games:filters")

	var out map[string]any
	found, err := builder.Get(&out)
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	assert.ErrorIs(t, builder.WithStruct(map[string]int{"a": 1}).Set(), ErrCacheUnavailable)
	assert.ErrorIs(t, builder.Delete(), ErrCacheUnavailable)

	exists, err := builder.Exists()
	assert.False(t, exists)
	assert.ErrorIs(t, err, ErrCacheUnavailable)
}

func TestCacheBuilder_Keys(t *testing.T) {
	id := uuid.MustParse("0190b8f4-7d0e-7a51-9c2b-3c9b7d1e2f40")

	assert.Equal(t, "user:"+id.String(), NewCacheBuilder(nil, id).WithHash("user").Key())
	assert.Equal(t, "games:filters", NewCacheBuilder(nil, "games:filters").WithHash("").Key())
}

func TestCacheBuilder_MarshalErrorWins(t *testing.T) {
	builder := NewCacheBuilder(nil, "bad").WithStruct(make(chan int))

	err := builder.Set()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheUnavailable)
	assert.Contains(t, err.Error(), "failed to marshal value to json")
}

func TestCacheBuilder_TimeoutContext(t *testing.T) {
	t.Run("uses builder timeout without a deadline", func(t *testing.T) {
		builder := NewCacheBuilder(nil, "k").WithTimeout(2 * time.Second)
		ctx, cancel := builder.createTimeoutContext()
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, 500*time.Millisecond)
	})

	t.Run("keeps a shorter parent deadline", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer parentCancel()

		builder := NewCacheBuilder(nil, "k").WithContext(parent).WithTimeout(time.Minute)
		ctx, cancel := builder.createTimeoutContext()
		defer cancel()

		parentDeadline, _ := parent.Deadline()
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.Equal(t, parentDeadline, deadline)
	})
}
