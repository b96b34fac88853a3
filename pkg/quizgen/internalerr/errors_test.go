package internalerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrInvalidConfig,
		ErrExtraction, ErrEmptyMaterial, ErrGeneration, ErrInvalidVariant,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}

func TestWrappedSentinelMatches(t *testing.T) {
	err := fmt.Errorf("extract report.pdf: %w", ErrExtraction)
	assert.True(t, errors.Is(err, ErrExtraction))
	assert.False(t, errors.Is(err, ErrGeneration))
}
