package util

import (
	"math"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuizID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewQuizID()
		assert.True(t, IsQuizID(id), id)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestIsQuizID(t *testing.T) {
	assert.False(t, IsQuizID(""))
	assert.False(t, IsQuizID("../../etc/passwd"))
	assert.False(t, IsQuizID("0123456789ABCDEF0123456789ABCDEF"))
	assert.False(t, IsQuizID("0123456789abcdef0123456789abcdeg"))
	assert.True(t, IsQuizID("0123456789abcdef0123456789abcdef"))
}

func TestNewULID(t *testing.T) {
	_, err := ulid.Parse(NewULID())
	require.NoError(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(sim))
	assert.Zero(t, sim)

	sim, err = CosineSimilarity([]float32{1, 2, 3}, []float32{10, 20, 30})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9, "magnitude does not affect the score")

	sim, err = CosineSimilarity([]float32{1, 1}, []float32{-1, -1})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-9)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.ErrorContains(t, err, "query 1, entry 2")

	_, err = CosineSimilarity(nil, []float32{1})
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestExpiryToNullTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	nt := ExpiryToNullTime(now, time.Hour)
	assert.True(t, nt.Valid)
	assert.Equal(t, now.Add(time.Hour), nt.Time)

	assert.False(t, ExpiryToNullTime(now, 0).Valid)
}
