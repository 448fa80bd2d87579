// Package predictor is the online prediction service: it owns the trained
// model, the code mappings, and the historical index, all immutable for the
// process lifetime, and scores one request at a time.
package predictor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrovision/cropcast/internal/features"
	"github.com/agrovision/cropcast/internal/history"
	"github.com/agrovision/cropcast/internal/model"
	"github.com/agrovision/cropcast/internal/regressor"
)

// Options tunes service behavior.
type Options struct {
	// ExcludedCities are rejected unconditionally. This is a deliberate
	// data-quality guard for markets whose source history is known to be
	// insufficient, not a generic validation rule.
	ExcludedCities []string

	// Now overrides the clock used for the most-recent-price lookup.
	Now func() time.Time
}

// Service scores prediction requests against the trained artifacts.
type Service struct {
	model    *regressor.Model
	crops    *model.CodeMapping
	cities   *model.CodeMapping
	hist     *history.Index
	excluded map[string]string
	now      func() time.Time
	log      *zap.Logger
}

// New wires a prediction service over its immutable startup artifacts.
func New(m *regressor.Model, crops, cities *model.CodeMapping, hist *history.Index, opts Options) *Service {
	excluded := make(map[string]string, len(opts.ExcludedCities))
	for _, c := range opts.ExcludedCities {
		excluded[strings.ToLower(c)] = fmt.Sprintf(
			"Predictions for %s are unavailable due to insufficient data.", c)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		model:    m,
		crops:    crops,
		cities:   cities,
		hist:     hist,
		excluded: excluded,
		now:      now,
		log:      zap.L().With(zap.String("component", "predictor")),
	}
}

// Crops returns the crop names the model was trained on, in code order.
func (s *Service) Crops() []string { return s.crops.Names() }

// Cities returns the city names the model was trained on, in code order.
func (s *Service) Cities() []string { return s.cities.Names() }

// Predict scores one (crop, city, target date) request. The planting date is
// validated against the target date but does not enter the feature vector.
// Returned errors are either *InputError, *NoDataError, or an internal
// scoring error that callers must not surface verbatim.
func (s *Service) Predict(ctx context.Context, crop, city string, targetDate, plantingDate time.Time) (*model.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "predictor: cancelled")
	}

	if !targetDate.After(plantingDate) {
		return nil, &InputError{
			Field:   "prediction_date",
			Message: "Prediction date must be after the planting date.",
		}
	}

	if msg, ok := s.excluded[strings.ToLower(city)]; ok {
		return nil, &InputError{Field: "city_name", Message: msg}
	}

	cropCode, ok := s.crops.Code(crop)
	if !ok {
		return nil, &InputError{
			Field: "crop_name",
			Message: fmt.Sprintf("%s not found. Available crops: %s",
				crop, strings.Join(s.crops.Names(), ", ")),
		}
	}

	cityCode, ok := s.cities.Code(city)
	if !ok {
		return nil, &InputError{
			Field: "city_name",
			Message: fmt.Sprintf("%s not found. Available cities: %s",
				city, strings.Join(s.cities.Names(), ", ")),
		}
	}

	if !s.hist.Has(crop, city) {
		return nil, &NoDataError{Crop: crop, City: city}
	}

	recent, ok := s.hist.MostRecent(crop, city, s.now())
	if !ok {
		// Nothing dated at or before now; the newest row is the best lag available.
		recent, _ = s.hist.Latest(crop, city)
	}

	vec := features.Vector(targetDate, cropCode, cityCode, recent.Price)
	price, err := s.model.Predict(vec.Floats())
	if err != nil {
		return nil, eris.Wrapf(err, "predictor: score %s in %s", crop, city)
	}
	if price < 0 {
		// Negative prices are meaningless; clamp.
		price = 0
	}

	s.log.Debug("prediction served",
		zap.String("crop", crop),
		zap.String("city", city),
		zap.Time("date", targetDate),
		zap.Float64("price", price),
		zap.Float64("previous_price", recent.Price),
	)

	return &model.PredictionResult{
		Crop:          crop,
		City:          city,
		Date:          targetDate,
		Price:         price,
		PreviousPrice: recent.Price,
	}, nil
}
