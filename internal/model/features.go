package model

// FeatureCount is the width of the regressor input.
const FeatureCount = 8

// FeatureNames lists the regressor input columns in scoring order. The order
// is part of the trained model's contract and must never change between
// training and serving.
var FeatureNames = []string{
	"year", "month", "day", "day_of_week", "crop", "city", "season", "prev_price",
}

// FeatureVector is one regressor input row. Every field is float64 regardless
// of its natural type: the trained model expects a homogeneous numeric row,
// and a type drift between training and serving is a silent correctness bug.
type FeatureVector struct {
	Year      float64 `json:"year"`
	Month     float64 `json:"month"`
	Day       float64 `json:"day"`
	DayOfWeek float64 `json:"day_of_week"`
	CropCode  float64 `json:"crop"`
	CityCode  float64 `json:"city"`
	Season    float64 `json:"season"`
	PrevPrice float64 `json:"prev_price"`
}

// Floats returns the vector as an ordered row matching FeatureNames.
func (v FeatureVector) Floats() []float64 {
	return []float64{
		v.Year, v.Month, v.Day, v.DayOfWeek,
		v.CropCode, v.CityCode, v.Season, v.PrevPrice,
	}
}
