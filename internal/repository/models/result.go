package models

import (
	"database/sql"
	"time"
)

// Result is one row of READUM_RESULTS.
type Result struct {
	ID        string       `db:"id"`
	Payload   string       `db:"payload"`
	CreatedAt time.Time    `db:"created_at"`
	ExpiresAt sql.NullTime `db:"expires_at"`
}

// Expired reports whether the row is past its expiry at now.
func (r Result) Expired(now time.Time) bool {
	return r.ExpiresAt.Valid && !now.Before(r.ExpiresAt.Time)
}
