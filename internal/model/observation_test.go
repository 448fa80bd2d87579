package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceObservation(t *testing.T) {
	day := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)

	obs, err := NewPriceObservation(day, "Rice", "Pune", 2150)
	require.NoError(t, err)
	assert.True(t, obs.HasPrice())
	assert.True(t, obs.HasKeys())

	// Missing price is legal at construction time.
	obs, err = NewPriceObservation(day, "Rice", "Pune", math.NaN())
	require.NoError(t, err)
	assert.False(t, obs.HasPrice())

	_, err = NewPriceObservation(time.Time{}, "Rice", "Pune", 2150)
	assert.Error(t, err)
	_, err = NewPriceObservation(day, "", "Pune", 2150)
	assert.Error(t, err)
	_, err = NewPriceObservation(day, "Rice", "", 2150)
	assert.Error(t, err)
	_, err = NewPriceObservation(day, "Rice", "Pune", -5)
	assert.Error(t, err)
}
