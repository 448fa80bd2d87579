package advisor

import (
	"github.com/shopspring/decimal"

	"github.com/agrovision/cropcast/internal/model"
)

// CropWeather holds the qualitative weather sensitivity of one crop per
// season, plus the free-text tip shown alongside it.
type CropWeather struct {
	Conditions map[model.Season]string
	Advice     map[model.Season]string
}

// Tables is the immutable advisory configuration: soil lookups, production
// costs, and weather sensitivities. Constructed once at process start and
// passed in explicitly so the overlay is testable with substitute tables.
type Tables struct {
	InflationRate   float64
	CitySoil        map[string]string
	SoilCrops       map[string][]string
	ProductionCosts map[string]decimal.Decimal
	DefaultCost     decimal.Decimal
	Weather         map[string]CropWeather
}

// DefaultTables returns the production advisory configuration.
func DefaultTables() Tables {
	return Tables{
		InflationRate: 0.05,
		CitySoil: map[string]string{
			"Mumbai": "alluvial",
			"Nagpur": "black",
			"Nashik": "red",
			"Pune":   "black",
			"Raigad": "laterite",
			"Thane":  "alluvial",
		},
		SoilCrops: map[string][]string{
			"alluvial": {"Rice", "Wheat"},
			"red":      {"Jowar", "Maize"},
			"black":    {"Wheat", "Bengal Gram"},
			"laterite": {},
			"arid":     {"Jowar"},
			"peaty":    {"Rice"},
			"saline":   {"Wheat"},
			"alkaline": {"Bengal Gram"},
		},
		ProductionCosts: map[string]decimal.Decimal{
			"Rice":        decimal.NewFromInt(8000),
			"Wheat":       decimal.NewFromInt(6000),
			"Bengal Gram": decimal.NewFromInt(7000),
			"Jowar":       decimal.NewFromInt(5000),
			"Maize":       decimal.NewFromInt(5500),
		},
		DefaultCost: decimal.NewFromInt(6000),
		Weather: map[string]CropWeather{
			"Rice": {
				Conditions: map[model.Season]string{
					model.SeasonMonsoon: "favorable",
					model.SeasonWinter:  "unfavorable",
					model.SeasonSummer:  "neutral",
				},
				Advice: map[model.Season]string{
					model.SeasonMonsoon: "Favorable conditions for Rice due to heavy rainfall.",
					model.SeasonWinter:  "Cold weather may reduce yield. Consider delaying planting or using cold-resistant varieties.",
					model.SeasonSummer:  "Ensure proper irrigation as hot weather may dry out fields.",
				},
			},
			"Wheat": {
				Conditions: map[model.Season]string{
					model.SeasonMonsoon: "unfavorable",
					model.SeasonWinter:  "favorable",
					model.SeasonSummer:  "unfavorable",
				},
				Advice: map[model.Season]string{
					model.SeasonMonsoon: "Heavy rainfall may cause waterlogging. Avoid planting Wheat during Monsoon or ensure proper drainage.",
					model.SeasonWinter:  "Favorable conditions for Wheat due to cool, dry weather.",
					model.SeasonSummer:  "High temperatures may reduce yield. Plant early to avoid peak summer heat.",
				},
			},
			"Bengal Gram": {
				Conditions: map[model.Season]string{
					model.SeasonMonsoon: "unfavorable",
					model.SeasonWinter:  "favorable",
					model.SeasonSummer:  "neutral",
				},
				Advice: map[model.Season]string{
					model.SeasonMonsoon: "Excessive moisture may cause fungal diseases. Avoid planting Bengal Gram during Monsoon.",
					model.SeasonWinter:  "Favorable conditions for Bengal Gram due to cool, dry weather.",
					model.SeasonSummer:  "Monitor for heat stress and ensure adequate water.",
				},
			},
			"Jowar": {
				Conditions: map[model.Season]string{
					model.SeasonMonsoon: "favorable",
					model.SeasonWinter:  "neutral",
					model.SeasonSummer:  "favorable",
				},
				Advice: map[model.Season]string{
					model.SeasonMonsoon: "Favorable conditions for Jowar, but ensure proper drainage to avoid waterlogging.",
					model.SeasonWinter:  "Protect Jowar from cold snaps to maintain yield.",
					model.SeasonSummer:  "Favorable conditions for Jowar due to hot, dry weather.",
				},
			},
			"Maize": {
				Conditions: map[model.Season]string{
					model.SeasonMonsoon: "favorable",
					model.SeasonWinter:  "unfavorable",
					model.SeasonSummer:  "neutral",
				},
				Advice: map[model.Season]string{
					model.SeasonMonsoon: "Favorable conditions for Maize due to rainfall.",
					model.SeasonWinter:  "Cold weather may stunt growth. Consider delaying planting or using cold-resistant varieties.",
					model.SeasonSummer:  "Ensure proper irrigation to support Maize growth in hot weather.",
				},
			},
		},
	}
}
