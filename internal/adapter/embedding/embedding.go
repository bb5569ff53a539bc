package embedding

import (
	"crypto/sha256"
	"encoding/hex"
)

const defaultOpenAIModel = "text-embedding-3-small"

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
