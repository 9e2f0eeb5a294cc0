package database

import (
	"context"
	"fmt"
	"time"

	"mygamelist/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey Database Index Organization
const (
	// GENERAL_CACHE_INDEX (DB 0) - catalog data such as the facet set
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - revoked token ids
	SESSION_CACHE_INDEX

	// USER_CACHE_INDEX (DB 2) - user records by id
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub for catalog events
	EVENTS_CACHE_INDEX
)

func newCacheClient(address string, index int) (valkey.Client, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    index,
	})
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	clients := []struct {
		index  int
		target *CacheClient
		name   string
	}{
		{GENERAL_CACHE_INDEX, &s.Cache.General, "general"},
		{SESSION_CACHE_INDEX, &s.Cache.Session, "session"},
		{USER_CACHE_INDEX, &s.Cache.User, "user"},
		{EVENTS_CACHE_INDEX, &s.Cache.Events, "events"},
	}

	for _, c := range clients {
		client, err := newCacheClient(address, c.index)
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, s.Cache)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client = cacheDB.General
		dbName = "General"
	case SESSION_CACHE_INDEX:
		client = cacheDB.Session
		dbName = "Session"
	case USER_CACHE_INDEX:
		client = cacheDB.User
		dbName = "User"
	case EVENTS_CACHE_INDEX:
		client = cacheDB.Events
		dbName = "Events"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if client == nil {
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
