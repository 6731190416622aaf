package domain

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// PointID derives the deterministic vector store point id for a canonical
// URI: UUID v5 over the DNS namespace. Stable across processes and runs,
// which is what makes every upsert idempotent.
func PointID(uri string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(uri)).String()
}

// QueryCacheID derives the embedding cache point id for a query string.
// The query is hashed first so arbitrarily long queries produce a bounded,
// collision-resistant key.
func QueryCacheID(query string) string {
	sum := sha256.Sum256([]byte(query))
	return PointID(hex.EncodeToString(sum[:]))
}
