package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovision/cropcast/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testIndex() *Index {
	return NewIndex([]model.PriceObservation{
		{Date: day(2022, 7, 10), Crop: "Rice", City: "Pune", Price: 2000},
		{Date: day(2023, 7, 5), Crop: "Rice", City: "Pune", Price: 2300},
		{Date: day(2023, 3, 1), Crop: "Rice", City: "Pune", Price: 2100},
		{Date: day(2023, 8, 20), Crop: "Rice", City: "Pune", Price: 2400},
		{Date: day(2023, 3, 1), Crop: "Wheat", City: "Nagpur", Price: 1800},
	})
}

func TestIndex_HasAndPairs(t *testing.T) {
	x := testIndex()
	assert.True(t, x.Has("Rice", "Pune"))
	assert.False(t, x.Has("Rice", "Nagpur"))
	assert.Equal(t, 2, x.Pairs())
}

func TestIndex_MostRecent(t *testing.T) {
	x := testIndex()

	got, ok := x.MostRecent("Rice", "Pune", day(2023, 7, 31))
	require.True(t, ok)
	assert.Equal(t, day(2023, 7, 5), got.Date)
	assert.InDelta(t, 2300, got.Price, 1e-9)

	// Cutoff on the observation day itself is inclusive.
	got, ok = x.MostRecent("Rice", "Pune", day(2022, 7, 10))
	require.True(t, ok)
	assert.Equal(t, day(2022, 7, 10), got.Date)

	_, ok = x.MostRecent("Rice", "Pune", day(2021, 1, 1))
	assert.False(t, ok)
}

func TestIndex_LatestAndRecent(t *testing.T) {
	x := testIndex()

	got, ok := x.Latest("Rice", "Pune")
	require.True(t, ok)
	assert.Equal(t, day(2023, 8, 20), got.Date)

	recent := x.Recent("Rice", "Pune", 2)
	require.Len(t, recent, 2)
	assert.Equal(t, day(2023, 8, 20), recent[0].Date)
	assert.Equal(t, day(2023, 7, 5), recent[1].Date)

	assert.Len(t, x.Recent("Rice", "Pune", 10), 4)
	assert.Empty(t, x.Recent("Maize", "Pune", 3))

	_, ok = x.Latest("Maize", "Pune")
	assert.False(t, ok)
}

func TestIndex_Series(t *testing.T) {
	x := testIndex()
	s := x.Series("Rice", "Pune")
	require.Len(t, s, 4)
	for i := 1; i < len(s); i++ {
		assert.False(t, s[i].Date.Before(s[i-1].Date))
	}
}

func TestIndex_ForMonth(t *testing.T) {
	x := testIndex()

	// July across years: 2000 (2022) and 2300 (2023).
	st, ok := x.ForMonth("Rice", "Pune", time.July)
	require.True(t, ok)
	assert.Equal(t, 2, st.Count)
	assert.InDelta(t, 2150, st.Mean, 1e-9)
	assert.InDelta(t, 2000, st.Min, 1e-9)
	assert.InDelta(t, 2300, st.Max, 1e-9)

	_, ok = x.ForMonth("Rice", "Pune", time.December)
	assert.False(t, ok)
}
