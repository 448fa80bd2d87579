package web

import (
	"html/template"

	"github.com/agrovision/cropcast/internal/advisor"
)

// recentPrice is one row of the recent price list.
type recentPrice struct {
	Date  string
	Price float64
}

// reportView is everything the report page renders.
type reportView struct {
	Crops  []string
	Cities []string
	Form   formInput
	Error  string

	Soil             string
	Suggestions      []advisor.Suggestion
	WeatherCondition string
	WeatherAdvice    string

	Predicted       bool
	PredictedPrice  float64
	AdjustedPrice   float64
	MostRecentPrice float64
	Revenue         string
	Cost            string
	Profit          string
	ProfitNegative  bool
	Storage         string

	Month     string
	MonthMean float64
	MonthMin  float64
	MonthMax  float64
	Recent    []recentPrice
	ChartPath string
}

var reportTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width,initial-scale=1">
    <title>Crop Price Prediction</title>
    <style>
        body { font-family: Arial, sans-serif; background: #f4f4f4; padding: 20px; margin: 0; }
        .container { max-width: 900px; margin: 0 auto; background: #fff; padding: 20px; border-radius: 8px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
        h1, h3 { text-align: center; color: #333; }
        label { display: block; margin-top: 10px; font-weight: bold; }
        input, select { width: 100%; padding: 8px; margin-top: 6px; border: 1px solid #ccc; border-radius: 4px; box-sizing: border-box; }
        button { width: 100%; padding: 10px; margin-top: 12px; background: #28a745; color: #fff; border: none; border-radius: 4px; cursor: pointer; font-size: 16px; }
        button:hover { background: #218838; }
        #result, #suggestions, #weather { margin-top: 20px; padding: 12px; border-radius: 6px; background: #f9f9f9; border: 1px solid #ddd; }
        .profit-negative { color: red; font-weight: bold; }
        .profit-positive { color: green; font-weight: bold; }
        .weather-favorable { color: green; }
        .weather-unfavorable { color: red; }
        .weather-neutral { color: orange; }
        .error { color: red; font-weight: bold; }
        img { max-width: 100%; height: auto; margin-top: 10px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Crop Price Prediction System</h1>
        <form method="POST" action="/">
            <label for="city">Location (City):</label>
            <select id="city" name="city_name" required>
                <option value="">Select a city</option>
                {{range .Cities}}<option value="{{.}}" {{if eq . $.Form.City}}selected{{end}}>{{.}}</option>
                {{end}}
            </select>

            <label for="crop">Crop:</label>
            <select id="crop" name="crop_name" required>
                <option value="">Select a crop</option>
                {{range .Crops}}<option value="{{.}}" {{if eq . $.Form.Crop}}selected{{end}}>{{.}}</option>
                {{end}}
            </select>

            <label for="yield">Expected Yield (in Quintals):</label>
            <input type="number" id="yield" name="yield" step="0.1" min="0" required {{if .Form.Yield}}value="{{.Form.Yield}}"{{end}}>

            <label for="planting_date">Planting Date:</label>
            <input type="date" id="planting_date" name="planting_date" required {{if not .Form.PlantingDate.IsZero}}value="{{.Form.PlantingDate.Format "2006-01-02"}}"{{end}}>

            <label for="prediction_date">Prediction Date:</label>
            <input type="date" id="prediction_date" name="prediction_date" required {{if not .Form.TargetDate.IsZero}}value="{{.Form.TargetDate.Format "2006-01-02"}}"{{end}}>

            <button type="submit">Predict Price</button>
        </form>

        {{if .Soil}}
        <div id="suggestions">
            <h3>Dominant Soil Type: {{.Soil}}</h3>
            <p><strong>Suggested Crops for This Soil:</strong></p>
            {{if .Suggestions}}
            <ul>
                {{range .Suggestions}}<li>{{.Crop}}: {{printf "%.2f" .Price}} INR/quintal (Predicted)</li>
                {{end}}
            </ul>
            {{else}}
            <p>No suitable crops in our dataset for this soil type.</p>
            {{end}}
        </div>
        {{end}}

        {{if .WeatherCondition}}
        <div id="weather">
            <h3>Weather Prediction for Planting</h3>
            <p><strong>Condition:</strong> <span class="weather-{{.WeatherCondition}}">{{.WeatherCondition}}</span></p>
            <p><strong>Advice:</strong> {{.WeatherAdvice}}</p>
        </div>
        {{end}}

        <div id="result">
            {{if .Error}}<p class="error">Error: {{.Error}}</p>{{end}}

            {{if .Predicted}}
            <h3>Prediction Results for {{.Form.Crop}} in {{.Form.City}}</h3>
            <p><strong>Predicted Price:</strong> {{printf "%.2f" .PredictedPrice}} INR/quintal</p>
            <p><strong>Adjusted Price (with 5% annualized inflation):</strong> {{printf "%.2f" .AdjustedPrice}} INR/quintal</p>
            <p><strong>Revenue (for {{.Form.Yield}} quintals):</strong> {{.Revenue}} INR</p>
            <p><strong>Production Cost (for {{.Form.Yield}} quintals):</strong> {{.Cost}} INR</p>
            <p><strong>Net Profit:</strong> <span class="{{if .ProfitNegative}}profit-negative{{else}}profit-positive{{end}}">{{.Profit}} INR</span></p>
            <p><strong>Storage Recommendation:</strong> {{.Storage}}</p>
            <p><strong>Most Recent Historical Price Used:</strong> {{printf "%.2f" .MostRecentPrice}} INR/quintal</p>

            <h4>Historical Prices for {{.Month}}:</h4>
            <p><strong>Mean:</strong> {{printf "%.2f" .MonthMean}} INR/quintal | <strong>Min:</strong> {{printf "%.2f" .MonthMin}} INR/quintal | <strong>Max:</strong> {{printf "%.2f" .MonthMax}} INR/quintal</p>

            <h4>Recent Prices:</h4>
            <ul>
                {{range .Recent}}<li>{{.Date}}: {{printf "%.2f" .Price}} INR/quintal</li>
                {{end}}
            </ul>

            {{if .ChartPath}}
            <h4>Price Trend Graph:</h4>
            <img src="{{.ChartPath}}" alt="Price Trend Graph">
            {{end}}
            {{end}}
        </div>
    </div>
</body>
</html>
`))
