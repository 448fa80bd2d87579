package model

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
)

// PriceObservation is one historical market row: a crop traded in a city on a
// calendar day, priced in INR per quintal. Price may be NaN between ingestion
// and cleaning; the cleaner either fills or drops such rows.
type PriceObservation struct {
	Date  time.Time `json:"date"`
	Crop  string    `json:"crop"`
	City  string    `json:"city"`
	Price float64   `json:"price"`
}

// NewPriceObservation validates the non-negotiable keys. Price is allowed to
// be NaN (missing) at construction; negative prices are rejected outright.
func NewPriceObservation(date time.Time, crop, city string, price float64) (PriceObservation, error) {
	if date.IsZero() {
		return PriceObservation{}, eris.New("observation: date is required")
	}
	if crop == "" {
		return PriceObservation{}, eris.New("observation: crop is required")
	}
	if city == "" {
		return PriceObservation{}, eris.New("observation: city is required")
	}
	if !math.IsNaN(price) && price < 0 {
		return PriceObservation{}, eris.Errorf("observation: negative price %.2f for %s in %s", price, crop, city)
	}
	return PriceObservation{Date: date, Crop: crop, City: city, Price: price}, nil
}

// HasPrice reports whether the observation carries a real price.
func (o PriceObservation) HasPrice() bool {
	return !math.IsNaN(o.Price)
}

// HasKeys reports whether date, crop, and city are all present.
func (o PriceObservation) HasKeys() bool {
	return !o.Date.IsZero() && o.Crop != "" && o.City != ""
}
