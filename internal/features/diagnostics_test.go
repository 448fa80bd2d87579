package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovision/cropcast/internal/model"
)

func TestDiagnose(t *testing.T) {
	rows := []model.PriceObservation{
		obs(day(2023, 3, 1), "Rice", "Pune", 2000),
		obs(day(2023, 3, 2), "Rice", "Pune", 2400),
		obs(day(2023, 3, 9), "Rice", "Pune", 2200), // 7-day hole
		obs(day(2023, 3, 1), "Bajra", "Pune", 1500),
		obs(day(2023, 3, 2), "Bajra", "Pune", math.NaN()),
		obs(time.Time{}, "Bajra", "Pune", 1500),
	}
	d := Diagnose(rows)

	assert.Equal(t, 6, d.Rows)
	assert.Equal(t, 1, d.MissingKeys)
	assert.Equal(t, 1, d.MissingPrices)

	require.Len(t, d.PerCrop, 2)
	assert.Equal(t, "Bajra", d.PerCrop[0].Name)
	assert.Equal(t, 1, d.PerCrop[0].Count)
	assert.Equal(t, "Rice", d.PerCrop[1].Name)
	assert.Equal(t, 3, d.PerCrop[1].Count)
	assert.InDelta(t, 2200, d.PerCrop[1].Mean, 1e-9)
	assert.InDelta(t, 2000, d.PerCrop[1].Min, 1e-9)
	assert.InDelta(t, 2400, d.PerCrop[1].Max, 1e-9)

	require.Len(t, d.PerCity, 1)
	assert.Equal(t, 4, d.PerCity[0].Count)

	require.Len(t, d.Gaps, 1)
	assert.Equal(t, "Rice", d.Gaps[0].Crop)
	assert.Equal(t, 7, d.Gaps[0].MaxDays)

	out := d.String()
	assert.Contains(t, out, "rows: 6")
	assert.Contains(t, out, "max gap 7 days")
}
