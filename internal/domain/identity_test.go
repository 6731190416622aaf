package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointIDStability(t *testing.T) {
	uri := "http://www.legislation.gov.uk/id/ukpga/2024/1"

	first := PointID(uri)
	second := PointID(uri)

	assert.Equal(t, first, second, "same URI must always map to the same point id")
	assert.Len(t, first, 36)
}

func TestPointIDDistinctURIs(t *testing.T) {
	a := PointID("http://www.legislation.gov.uk/id/ukpga/2024/1")
	b := PointID("http://www.legislation.gov.uk/id/ukpga/2024/2")

	assert.NotEqual(t, a, b)
}

func TestQueryCacheIDDeterminism(t *testing.T) {
	query := "contract frustration doctrine"

	assert.Equal(t, QueryCacheID(query), QueryCacheID(query))
	assert.NotEqual(t, QueryCacheID(query), QueryCacheID("data protection"))
	// The cache key must never collide with a document id for the same text.
	assert.NotEqual(t, QueryCacheID(query), PointID(query))
}
