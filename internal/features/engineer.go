package features

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrovision/cropcast/internal/model"
)

// TrainingSet is the engineered table handed to the regressor. Rows is the
// retained, cleaned observation slice aligned index-for-index with Vectors
// and Targets.
type TrainingSet struct {
	Vectors []model.FeatureVector
	Targets []float64
	Rows    []model.PriceObservation
	Crops   *model.CodeMapping
	Cities  *model.CodeMapping
}

// Vector builds one regressor input row. This is the single shared
// feature-construction routine used by both training and the prediction
// service; it is the only place feature order and typing are decided.
func Vector(date time.Time, cropCode, cityCode int, prevPrice float64) model.FeatureVector {
	return model.FeatureVector{
		Year:      float64(date.Year()),
		Month:     float64(int(date.Month())),
		Day:       float64(date.Day()),
		DayOfWeek: float64(int(date.Weekday())),
		CropCode:  float64(cropCode),
		CityCode:  float64(cityCode),
		Season:    float64(model.SeasonOf(date.Month())),
		PrevPrice: prevPrice,
	}
}

// Engineer runs the cleaning pipeline and derives the training table: clean,
// sort by (crop, city, date), attach the lag-1 previous price within each
// series, drop rows without one (the first observation of every series, an
// accepted loss), and assign integer codes to the surviving crop and city
// names. The code mappings are part of the trained artifact and must be
// reused unchanged at prediction time.
func Engineer(rows []model.PriceObservation, priceFloor float64) (*TrainingSet, error) {
	cleaned := Clean(rows, priceFloor)
	if len(cleaned) == 0 {
		return nil, eris.New("features: no rows survived cleaning")
	}

	SortSeries(cleaned)

	crops := make([]string, 0, len(cleaned))
	cities := make([]string, 0, len(cleaned))
	for _, r := range cleaned {
		crops = append(crops, r.Crop)
		cities = append(cities, r.City)
	}
	cropCodes := model.NewCodeMapping(crops)
	cityCodes := model.NewCodeMapping(cities)

	set := &TrainingSet{Crops: cropCodes, Cities: cityCodes}

	var prev *model.PriceObservation
	for i, r := range cleaned {
		sameSeries := prev != nil && prev.Crop == r.Crop && prev.City == r.City
		if !sameSeries {
			// First chronological observation of the series has no lag.
			prev = &cleaned[i]
			continue
		}
		prevPrice := prev.Price

		cropCode, _ := cropCodes.Code(r.Crop)
		cityCode, _ := cityCodes.Code(r.City)
		set.Vectors = append(set.Vectors, Vector(r.Date, cropCode, cityCode, prevPrice))
		set.Targets = append(set.Targets, r.Price)
		set.Rows = append(set.Rows, r)
		prev = &cleaned[i]
	}

	if len(set.Vectors) == 0 {
		return nil, eris.New("features: no rows with a previous price; series are too short")
	}
	return set, nil
}
