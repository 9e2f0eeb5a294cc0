package constants

import "time"

const (
	FacetCacheKey    = "games:filters"
	FacetCacheExpiry = 10 * time.Minute

	UserCachePrefix = "user" // CacheBuilder adds colon
	UserCacheExpiry = 24 * time.Hour

	RevokedTokenPrefix = "revoked"
)

// EventsChannel is the pub/sub channel catalog changes are published on.
const EventsChannel = "catalog"
