// Package chart renders historical price trend images for the web report.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/agrovision/cropcast/internal/model"
)

// trendFile is the single chart file, shared by all requests. Concurrent
// requests for different crops race on it last-writer-wins; an accepted
// limitation, not a cache.
const trendFile = "price_trend.png"

// Renderer writes trend charts into a static file directory.
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer, ensuring the static directory exists.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "chart: create static dir %s", dir)
	}
	return &Renderer{dir: dir}, nil
}

// Trend plots the (crop, city) price series and writes it to the static
// directory, returning the URL path of the image. An empty series returns an
// empty path and no error; the report simply omits the chart.
func (r *Renderer) Trend(crop, city string, series []model.PriceObservation) (string, error) {
	if len(series) == 0 {
		return "", nil
	}

	pts := make(plotter.XYs, 0, len(series))
	for _, obs := range series {
		pts = append(pts, plotter.XY{X: float64(obs.Date.Unix()), Y: obs.Price})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Historical Price Trend for %s in %s", crop, city)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Price (INR/quintal)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2006"}
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return "", eris.Wrap(err, "chart: build line")
	}
	p.Add(line, points)
	p.Legend.Add(fmt.Sprintf("%s in %s", crop, city), line, points)

	out := filepath.Join(r.dir, trendFile)
	if err := p.Save(10*vg.Inch, 6*vg.Inch, out); err != nil {
		return "", eris.Wrapf(err, "chart: save %s", out)
	}

	return "/static/" + trendFile, nil
}
