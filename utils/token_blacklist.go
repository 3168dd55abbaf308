package utils

import (
	"context"
	"time"
)

// The revocation list is written by the external auth service on logout and
// shared with this API through Redis. Keys carry a TTL matching the token's
// natural expiration.

const blacklistKeyPrefix = "jwt:blacklist:"

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
// On Redis errors it fails open to avoid locking out every caller.
func IsTokenBlacklisted(token string) bool {
	rc := GetRedis()
	if rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := rc.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}
