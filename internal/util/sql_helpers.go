package util

import (
	"database/sql"
	"time"
)

// ExpiryToNullTime turns a TTL measured from now into a nullable expiry.
// A non-positive TTL means the row never expires.
func ExpiryToNullTime(now time.Time, ttl time.Duration) sql.NullTime {
	if ttl <= 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: now.Add(ttl), Valid: true}
}
