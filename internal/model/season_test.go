package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonOf_AllMonths(t *testing.T) {
	expected := map[time.Month]Season{
		time.January:   SeasonWinter,
		time.February:  SeasonWinter,
		time.March:     SeasonSummer,
		time.April:     SeasonSummer,
		time.May:       SeasonSummer,
		time.June:      SeasonMonsoon,
		time.July:      SeasonMonsoon,
		time.August:    SeasonMonsoon,
		time.September: SeasonMonsoon,
		time.October:   SeasonSummer,
		time.November:  SeasonSummer,
		time.December:  SeasonWinter,
	}
	for month, want := range expected {
		assert.Equal(t, want, SeasonOf(month), "month %s", month)
	}
}

func TestSeasonString(t *testing.T) {
	assert.Equal(t, "monsoon", SeasonMonsoon.String())
	assert.Equal(t, "winter", SeasonWinter.String())
	assert.Equal(t, "summer", SeasonSummer.String())
	assert.Equal(t, "unknown", Season(0).String())
}
