// Package history provides read-only lookups over the consolidated
// observation table: the lag-price lookup the prediction service needs and
// the statistics the report shows.
package history

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/agrovision/cropcast/internal/model"
)

type pairKey struct{ crop, city string }

// Index holds per-(crop, city) series sorted by date ascending. Built once
// at startup and treated as immutable for the process lifetime.
type Index struct {
	series map[pairKey][]model.PriceObservation
}

// NewIndex builds an index over rows. The input slice is not retained.
func NewIndex(rows []model.PriceObservation) *Index {
	series := make(map[pairKey][]model.PriceObservation)
	for _, r := range rows {
		k := pairKey{r.Crop, r.City}
		series[k] = append(series[k], r)
	}
	for k := range series {
		s := series[k]
		sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
	}
	return &Index{series: series}
}

// Has reports whether any observation exists for (crop, city).
func (x *Index) Has(crop, city string) bool {
	return len(x.series[pairKey{crop, city}]) > 0
}

// MostRecent returns the latest observation for (crop, city) dated at or
// before the cutoff.
func (x *Index) MostRecent(crop, city string, cutoff time.Time) (model.PriceObservation, bool) {
	s := x.series[pairKey{crop, city}]
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].Date.After(cutoff) {
			return s[i], true
		}
	}
	return model.PriceObservation{}, false
}

// Latest returns the newest observation for (crop, city) regardless of date.
func (x *Index) Latest(crop, city string) (model.PriceObservation, bool) {
	s := x.series[pairKey{crop, city}]
	if len(s) == 0 {
		return model.PriceObservation{}, false
	}
	return s[len(s)-1], true
}

// Recent returns up to n observations for (crop, city), newest first.
func (x *Index) Recent(crop, city string, n int) []model.PriceObservation {
	s := x.series[pairKey{crop, city}]
	if n > len(s) {
		n = len(s)
	}
	out := make([]model.PriceObservation, 0, n)
	for i := len(s) - 1; i >= len(s)-n; i-- {
		out = append(out, s[i])
	}
	return out
}

// Series returns the full (crop, city) series, oldest first.
func (x *Index) Series(crop, city string) []model.PriceObservation {
	s := x.series[pairKey{crop, city}]
	out := make([]model.PriceObservation, len(s))
	copy(out, s)
	return out
}

// MonthStats summarizes prices of one calendar month across all years.
type MonthStats struct {
	Month time.Month
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

// ForMonth computes the mean/min/max of all (crop, city) prices falling in
// the given calendar month, across years. ok is false when no observation
// matches.
func (x *Index) ForMonth(crop, city string, month time.Month) (MonthStats, bool) {
	var prices []float64
	for _, r := range x.series[pairKey{crop, city}] {
		if r.Date.Month() == month {
			prices = append(prices, r.Price)
		}
	}
	if len(prices) == 0 {
		return MonthStats{Month: month}, false
	}
	sort.Float64s(prices)
	return MonthStats{
		Month: month,
		Count: len(prices),
		Mean:  stat.Mean(prices, nil),
		Min:   prices[0],
		Max:   prices[len(prices)-1],
	}, true
}

// Pairs returns the number of distinct (crop, city) series.
func (x *Index) Pairs() int {
	return len(x.series)
}
