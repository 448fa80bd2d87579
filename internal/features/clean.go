// Package features turns raw price observations into the regressor's
// training table and builds the single feature vector used at serving time.
// Training and serving share one vector-construction routine so the feature
// order and numeric types can never drift apart.
package features

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/agrovision/cropcast/internal/model"
)

// iqrFence is the multiplier on the interquartile range used for the
// per-crop outlier bounds.
const iqrFence = 1.5

// DropMissingKeys removes rows missing date, crop, or city. These keys are
// non-negotiable: a row that cannot be placed in a (crop, city) series is
// useless to both training and the lag lookup.
func DropMissingKeys(rows []model.PriceObservation) []model.PriceObservation {
	out := rows[:0:0]
	for _, r := range rows {
		if r.HasKeys() {
			out = append(out, r)
		}
	}
	return out
}

// FillGroupMean fills missing prices with the mean of the row's (crop, city)
// group. Rows in groups with no observed price at all stay missing and are
// dropped by Clean.
func FillGroupMean(rows []model.PriceObservation) []model.PriceObservation {
	type key struct{ crop, city string }
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, r := range rows {
		if r.HasPrice() {
			k := key{r.Crop, r.City}
			sums[k] += r.Price
			counts[k]++
		}
	}

	out := make([]model.PriceObservation, 0, len(rows))
	for _, r := range rows {
		if !r.HasPrice() {
			k := key{r.Crop, r.City}
			if counts[k] == 0 {
				continue
			}
			r.Price = sums[k] / float64(counts[k])
		}
		out = append(out, r)
	}
	return out
}

// ApplyFloor removes rows priced below floor. Near-zero prices are
// implausible for these commodities and indicate unit or parsing errors.
func ApplyFloor(rows []model.PriceObservation, floor float64) []model.PriceObservation {
	out := rows[:0:0]
	for _, r := range rows {
		if r.Price >= floor {
			out = append(out, r)
		}
	}
	return out
}

// TrimOutliers removes per-crop statistical outliers using a 1.5*IQR fence.
// Each crop is trimmed against its own price distribution only, so a
// legitimately expensive crop is never cut by another crop's scale.
func TrimOutliers(rows []model.PriceObservation) []model.PriceObservation {
	byCrop := make(map[string][]float64)
	for _, r := range rows {
		byCrop[r.Crop] = append(byCrop[r.Crop], r.Price)
	}

	type fence struct{ lo, hi float64 }
	fences := make(map[string]fence, len(byCrop))
	for crop, prices := range byCrop {
		sort.Float64s(prices)
		q1 := stat.Quantile(0.25, stat.LinInterp, prices, nil)
		q3 := stat.Quantile(0.75, stat.LinInterp, prices, nil)
		iqr := q3 - q1
		fences[crop] = fence{lo: q1 - iqrFence*iqr, hi: q3 + iqrFence*iqr}
	}

	out := rows[:0:0]
	for _, r := range rows {
		f := fences[r.Crop]
		if r.Price >= f.lo && r.Price <= f.hi {
			out = append(out, r)
		}
	}
	return out
}

// Clean runs the full cleaning pipeline in its fixed order: drop rows
// missing keys, fill missing prices with the group mean, enforce the price
// floor, trim per-crop outliers. The order is deliberate and matches the
// table the model has always been trained on; reordering changes which lag
// values survive downstream.
func Clean(rows []model.PriceObservation, priceFloor float64) []model.PriceObservation {
	rows = DropMissingKeys(rows)
	rows = FillGroupMean(rows)
	rows = ApplyFloor(rows, priceFloor)
	rows = TrimOutliers(rows)
	return rows
}

// SortSeries orders rows by (crop, city, date) ascending, the order the lag
// computation requires.
func SortSeries(rows []model.PriceObservation) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Crop != rows[j].Crop {
			return rows[i].Crop < rows[j].Crop
		}
		if rows[i].City != rows[j].City {
			return rows[i].City < rows[j].City
		}
		return rows[i].Date.Before(rows[j].Date)
	})
}
