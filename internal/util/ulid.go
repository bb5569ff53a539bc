package util

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. Used for request correlation ids,
// which sort by creation time in the logs.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// NewQuizID returns a random 32 character lowercase hex id. It is safe to use
// as a path segment and as a storage key.
func NewQuizID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// IsQuizID reports whether s has the shape produced by NewQuizID.
func IsQuizID(s string) bool {
	if len(s) != 32 || strings.ToLower(s) != s {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
