package util

import (
	"errors"
	"fmt"
	"math"
)

var ErrEmptyVector = errors.New("vector is empty")

// CosineSimilarity scores an indexed entry vector against a query vector.
// Products are taken in float64 so long embeddings do not lose precision.
// A zero-norm vector has no direction and scores 0 rather than NaN.
func CosineSimilarity(query, entry []float32) (float64, error) {
	if len(query) == 0 || len(entry) == 0 {
		return 0, ErrEmptyVector
	}
	if len(query) != len(entry) {
		return 0, fmt.Errorf("embedding dimensions differ: query %d, entry %d", len(query), len(entry))
	}

	var dot, qq, ee float64
	for i, q := range query {
		qf, ef := float64(q), float64(entry[i])
		dot += qf * ef
		qq += qf * qf
		ee += ef * ef
	}
	if qq == 0 || ee == 0 {
		return 0, nil
	}
	return dot / math.Sqrt(qq*ee), nil
}
