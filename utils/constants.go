package utils

import "time"

// LocationCachePrefix is the prefix used for Redis location search cache keys.
const LocationCachePrefix = "locations:"

// SessionCachePrefix is the prefix used for Redis search page session keys.
const SessionCachePrefix = "session:"

// RedisPingTimeout bounds the connectivity check done when a client is created.
const RedisPingTimeout = 2 * time.Second
