package features

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/agrovision/cropcast/internal/model"
)

// GroupStats summarizes the price distribution of one group.
type GroupStats struct {
	Name  string
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

// Gap is a detected hole in one (crop, city) series.
type Gap struct {
	Crop    string
	City    string
	MaxDays int
}

// Diagnostics is the dataset summary printed by the training command. The
// console is the sole observability surface for training runs.
type Diagnostics struct {
	Rows          int
	MissingKeys   int
	MissingPrices int
	PerCrop       []GroupStats
	PerCity       []GroupStats
	Gaps          []Gap
}

// Diagnose summarizes the raw observation table before cleaning.
func Diagnose(rows []model.PriceObservation) Diagnostics {
	d := Diagnostics{Rows: len(rows)}

	cropPrices := make(map[string][]float64)
	cityPrices := make(map[string][]float64)
	type seriesKey struct{ crop, city string }
	series := make(map[seriesKey][]time.Time)

	for _, r := range rows {
		if !r.HasKeys() {
			d.MissingKeys++
			continue
		}
		if !r.HasPrice() {
			d.MissingPrices++
			continue
		}
		cropPrices[r.Crop] = append(cropPrices[r.Crop], r.Price)
		cityPrices[r.City] = append(cityPrices[r.City], r.Price)
		k := seriesKey{r.Crop, r.City}
		series[k] = append(series[k], r.Date)
	}

	d.PerCrop = groupStats(cropPrices)
	d.PerCity = groupStats(cityPrices)

	for k, dates := range series {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		maxGap := 0
		for i := 1; i < len(dates); i++ {
			gap := int(dates[i].Sub(dates[i-1]).Hours() / 24)
			if gap > maxGap {
				maxGap = gap
			}
		}
		if maxGap > 1 {
			d.Gaps = append(d.Gaps, Gap{Crop: k.crop, City: k.city, MaxDays: maxGap})
		}
	}
	sort.Slice(d.Gaps, func(i, j int) bool {
		if d.Gaps[i].Crop != d.Gaps[j].Crop {
			return d.Gaps[i].Crop < d.Gaps[j].Crop
		}
		return d.Gaps[i].City < d.Gaps[j].City
	})

	return d
}

func groupStats(groups map[string][]float64) []GroupStats {
	out := make([]GroupStats, 0, len(groups))
	for name, prices := range groups {
		sort.Float64s(prices)
		out = append(out, GroupStats{
			Name:  name,
			Count: len(prices),
			Mean:  stat.Mean(prices, nil),
			Min:   prices[0],
			Max:   prices[len(prices)-1],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// String renders the diagnostics as the training console report.
func (d Diagnostics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d (missing keys: %d, missing prices: %d)\n",
		d.Rows, d.MissingKeys, d.MissingPrices)

	b.WriteString("per-crop price statistics:\n")
	for _, g := range d.PerCrop {
		fmt.Fprintf(&b, "  %-12s n=%-5d mean=%.2f min=%.2f max=%.2f\n",
			g.Name, g.Count, g.Mean, g.Min, g.Max)
	}
	b.WriteString("per-city price statistics:\n")
	for _, g := range d.PerCity {
		fmt.Fprintf(&b, "  %-12s n=%-5d mean=%.2f min=%.2f max=%.2f\n",
			g.Name, g.Count, g.Mean, g.Min, g.Max)
	}
	if len(d.Gaps) > 0 {
		b.WriteString("date gaps:\n")
		for _, g := range d.Gaps {
			fmt.Fprintf(&b, "  %s in %s: max gap %d days\n", g.Crop, g.City, g.MaxDays)
		}
	}
	return b.String()
}
