// Package advisor layers deterministic economic and agronomic advice on top
// of the prediction service: inflation adjustment, profit arithmetic, a
// store-vs-sell recommendation, soil-based crop suggestions, and a weather
// advisory. Nothing here is learned; it is all lookups and arithmetic.
package advisor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agrovision/cropcast/internal/model"
)

// daysPerMonth is the intentional approximation used for the inflation
// horizon; months are days/30, not calendar months.
const daysPerMonth = 30.0

// PriceService is the prediction dependency. Satisfied by
// *predictor.Service; substituted in tests.
type PriceService interface {
	Predict(ctx context.Context, crop, city string, targetDate, plantingDate time.Time) (*model.PredictionResult, error)
}

// Advisor derives advice from predictions and the fixed tables.
type Advisor struct {
	svc    PriceService
	tables Tables
	log    *zap.Logger
}

// New creates an advisor over a prediction service and an immutable table set.
func New(svc PriceService, tables Tables) *Advisor {
	return &Advisor{
		svc:    svc,
		tables: tables,
		log:    zap.L().With(zap.String("component", "advisor")),
	}
}

// AdjustForInflation applies the annualized inflation rate over the
// days/30-month horizon between planting and target date.
func (a *Advisor) AdjustForInflation(price float64, plantingDate, targetDate time.Time) float64 {
	days := targetDate.Sub(plantingDate).Hours() / 24
	months := days / daysPerMonth
	return price * (1 + a.tables.InflationRate*(months/12))
}

// Economics is the revenue/cost/profit breakdown for a harvest.
type Economics struct {
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Profit  decimal.Decimal
}

// Economics computes revenue, production cost, and net profit for the given
// adjusted price and expected yield in quintals. Crops without a configured
// production cost fall back to the default cost.
func (a *Advisor) Economics(crop string, adjustedPrice, yieldQuintals float64) Economics {
	unitCost, ok := a.tables.ProductionCosts[crop]
	if !ok {
		unitCost = a.tables.DefaultCost
	}

	yield := decimal.NewFromFloat(yieldQuintals)
	revenue := decimal.NewFromFloat(adjustedPrice).Mul(yield).Round(2)
	cost := unitCost.Mul(yield).Round(2)

	return Economics{
		Revenue: revenue,
		Cost:    cost,
		Profit:  revenue.Sub(cost),
	}
}

// StorageAdvice re-predicts one month past the target date and recommends
// holding when the inflation-adjusted future price beats the current
// adjusted price. A failed sub-prediction yields the fixed fallback message
// rather than an error.
func (a *Advisor) StorageAdvice(ctx context.Context, crop, city string, targetDate, plantingDate time.Time, adjustedPrice float64) string {
	futureDate := targetDate.AddDate(0, 0, 30)
	future, err := a.svc.Predict(ctx, crop, city, futureDate, plantingDate)
	if err != nil {
		a.log.Warn("storage advice sub-prediction failed",
			zap.String("crop", crop),
			zap.String("city", city),
			zap.Error(err),
		)
		return "Unable to provide storage recommendation."
	}

	adjustedFuture := a.AdjustForInflation(future.Price, plantingDate, futureDate)
	diff := adjustedFuture - adjustedPrice
	if diff > 0 {
		return fmt.Sprintf("Store for one month to gain %.2f INR/quintal (expected %.2f).",
			diff, adjustedFuture)
	}
	return fmt.Sprintf("Sell now; price may drop by %.2f INR/quintal (expected %.2f).",
		-diff, adjustedFuture)
}

// Suggestion is one alternative crop scored for the same city and dates.
type Suggestion struct {
	Crop  string  `json:"crop"`
	Price float64 `json:"price"` // inflation-adjusted, rounded
}

// Soil returns the dominant soil type for a city.
func (a *Advisor) Soil(city string) (string, bool) {
	soil, ok := a.tables.CitySoil[city]
	return soil, ok
}

// Suggestions scores the crops suited to the city's soil through the same
// prediction service and inflation adjustment. The crop already being
// queried is skipped, and any candidate that fails to price is omitted
// rather than failing the whole set.
func (a *Advisor) Suggestions(ctx context.Context, city, excludeCrop string, targetDate, plantingDate time.Time) []Suggestion {
	soil, ok := a.tables.CitySoil[city]
	if !ok {
		return nil
	}

	var out []Suggestion
	for _, crop := range a.tables.SoilCrops[soil] {
		if crop == excludeCrop {
			continue
		}
		res, err := a.svc.Predict(ctx, crop, city, targetDate, plantingDate)
		if err != nil {
			a.log.Debug("suggestion omitted",
				zap.String("crop", crop),
				zap.String("city", city),
				zap.Error(err),
			)
			continue
		}
		adjusted := a.AdjustForInflation(res.Price, plantingDate, targetDate)
		out = append(out, Suggestion{Crop: crop, Price: round2(adjusted)})
	}
	return out
}

// WeatherAdvice is the qualitative planting-season outlook for a crop.
type WeatherAdvice struct {
	Condition string `json:"condition"` // favorable, unfavorable, neutral
	Advice    string `json:"advice"`
}

// Weather looks up the crop's sensitivity for the season of the planting
// date. The planting month drives this, not the prediction month: the advice
// concerns conditions at sowing time.
func (a *Advisor) Weather(crop string, plantingDate time.Time) WeatherAdvice {
	season := model.SeasonOf(plantingDate.Month())

	cw, ok := a.tables.Weather[crop]
	if !ok {
		return WeatherAdvice{
			Condition: "neutral",
			Advice:    "No specific weather advice available.",
		}
	}

	out := WeatherAdvice{Condition: cw.Conditions[season], Advice: cw.Advice[season]}
	if out.Condition == "" {
		out.Condition = "neutral"
	}
	if out.Advice == "" {
		out.Advice = "No specific weather advice available."
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
