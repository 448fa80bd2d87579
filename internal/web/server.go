// Package web serves the prediction form and the rendered advisory report.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/agrovision/cropcast/internal/advisor"
	"github.com/agrovision/cropcast/internal/chart"
	"github.com/agrovision/cropcast/internal/history"
	"github.com/agrovision/cropcast/internal/model"
	"github.com/agrovision/cropcast/internal/predictor"
	"github.com/agrovision/cropcast/internal/store"
)

const formDateLayout = "2006-01-02"

// Server handles the form endpoint. All of its dependencies are immutable
// process-lifetime artifacts; requests are independent reads.
type Server struct {
	svc       advisor.PriceService
	adv       *advisor.Advisor
	hist      *history.Index
	charts    *chart.Renderer
	audit     store.Store
	crops     []string
	cities    []string
	staticDir string
	log       *zap.Logger
}

// NewServer wires the web handler. charts and audit may be nil; the report
// then omits the trend image and no request log is written.
func NewServer(svc advisor.PriceService, adv *advisor.Advisor, hist *history.Index,
	charts *chart.Renderer, audit store.Store, crops, cities []string, staticDir string) *Server {
	return &Server{
		svc:       svc,
		adv:       adv,
		hist:      hist,
		charts:    charts,
		audit:     audit,
		crops:     crops,
		cities:    cities,
		staticDir: staticDir,
		log:       zap.L().With(zap.String("component", "web")),
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleForm)
	r.Post("/", s.handlePredict)

	if s.staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, &reportView{Crops: s.crops, Cities: s.cities})
}

// formInput is the parsed and validated form submission.
type formInput struct {
	Crop         string
	City         string
	Yield        float64
	PlantingDate time.Time
	TargetDate   time.Time
}

// parseForm validates the submission. The returned message is a
// user-correctable field-level error; internal detail never leaks through it.
func (s *Server) parseForm(r *http.Request) (formInput, string) {
	var in formInput

	if err := r.ParseForm(); err != nil {
		return in, "Invalid form submission."
	}

	in.Crop = r.PostFormValue("crop_name")
	in.City = r.PostFormValue("city_name")
	yieldStr := r.PostFormValue("yield")
	plantingStr := r.PostFormValue("planting_date")
	targetStr := r.PostFormValue("prediction_date")

	if in.Crop == "" || in.City == "" || yieldStr == "" || plantingStr == "" || targetStr == "" {
		return in, "All fields are required."
	}

	y, err := strconv.ParseFloat(yieldStr, 64)
	if err != nil {
		return in, "Yield must be a valid number."
	}
	if y <= 0 {
		return in, "Yield must be greater than 0."
	}
	in.Yield = y

	if in.PlantingDate, err = time.Parse(formDateLayout, plantingStr); err != nil {
		return in, "Invalid planting date format. Use YYYY-MM-DD (e.g., 2025-03-26)."
	}
	if in.TargetDate, err = time.Parse(formDateLayout, targetStr); err != nil {
		return in, "Invalid prediction date format. Use YYYY-MM-DD (e.g., 2025-03-26)."
	}
	if !in.TargetDate.After(in.PlantingDate) {
		return in, "Prediction date must be after the planting date."
	}

	return in, ""
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view := &reportView{Crops: s.crops, Cities: s.cities}
	in, errMsg := s.parseForm(r)
	view.Form = in
	if errMsg != "" {
		view.Error = errMsg
		s.render(w, view)
		return
	}

	// Weather and soil suggestions do not depend on the main prediction
	// succeeding; the report shows them even when it fails.
	weather := s.adv.Weather(in.Crop, in.PlantingDate)
	view.WeatherCondition = weather.Condition
	view.WeatherAdvice = weather.Advice
	if soil, ok := s.adv.Soil(in.City); ok {
		view.Soil = soil
		view.Suggestions = s.adv.Suggestions(ctx, in.City, in.Crop, in.TargetDate, in.PlantingDate)
	}

	res, err := s.svc.Predict(ctx, in.Crop, in.City, in.TargetDate, in.PlantingDate)
	if err != nil {
		view.Error = s.userMessage(err, in)
		s.logAudit(ctx, in, nil, err)
		s.render(w, view)
		return
	}
	s.logAudit(ctx, in, res, nil)

	adjusted := s.adv.AdjustForInflation(res.Price, in.PlantingDate, in.TargetDate)
	econ := s.adv.Economics(in.Crop, adjusted, in.Yield)

	view.Predicted = true
	view.PredictedPrice = res.Price
	view.AdjustedPrice = adjusted
	view.MostRecentPrice = res.PreviousPrice
	view.Revenue = econ.Revenue.StringFixed(2)
	view.Cost = econ.Cost.StringFixed(2)
	view.Profit = econ.Profit.StringFixed(2)
	view.ProfitNegative = econ.Profit.IsNegative()
	view.Storage = s.adv.StorageAdvice(ctx, in.Crop, in.City, in.TargetDate, in.PlantingDate, adjusted)

	view.Month = in.TargetDate.Month().String()
	if stats, ok := s.hist.ForMonth(in.Crop, in.City, in.TargetDate.Month()); ok {
		view.MonthMean = stats.Mean
		view.MonthMin = stats.Min
		view.MonthMax = stats.Max
	}

	for _, obs := range s.hist.Recent(in.Crop, in.City, 5) {
		view.Recent = append(view.Recent, recentPrice{
			Date:  obs.Date.Format(formDateLayout),
			Price: obs.Price,
		})
	}

	if s.charts != nil {
		path, err := s.charts.Trend(in.Crop, in.City, s.hist.Series(in.Crop, in.City))
		if err != nil {
			s.log.Error("trend chart failed",
				zap.String("crop", in.Crop),
				zap.String("city", in.City),
				zap.Error(err),
			)
		} else {
			view.ChartPath = path
		}
	}

	s.render(w, view)
}

// userMessage converts a prediction error into the message shown to the
// caller. Input and no-data errors carry their own descriptive text; scoring
// failures are logged in full and surfaced generically.
func (s *Server) userMessage(err error, in formInput) string {
	var inputErr *predictor.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	var noData *predictor.NoDataError
	if errors.As(err, &noData) {
		return noData.Error()
	}

	s.log.Error("prediction failed",
		zap.String("crop", in.Crop),
		zap.String("city", in.City),
		zap.Time("target_date", in.TargetDate),
		zap.Error(err),
	)
	return "Prediction failed: verify model and feature alignment."
}

func (s *Server) logAudit(ctx context.Context, in formInput, res *model.PredictionResult, predErr error) {
	if s.audit == nil {
		return
	}

	entry := model.AuditEntry{
		Crop:         in.Crop,
		City:         in.City,
		PlantingDate: in.PlantingDate,
		TargetDate:   in.TargetDate,
	}
	switch {
	case predErr == nil:
		entry.Status = model.AuditStatusOK
		entry.Price = res.Price
		entry.PreviousPrice = res.PreviousPrice
	default:
		var inputErr *predictor.InputError
		var noData *predictor.NoDataError
		if errors.As(predErr, &inputErr) || errors.As(predErr, &noData) {
			entry.Status = model.AuditStatusRejected
		} else {
			entry.Status = model.AuditStatusFailed
		}
		entry.Detail = predErr.Error()
	}

	if _, err := s.audit.LogPrediction(ctx, entry); err != nil {
		s.log.Warn("audit log write failed", zap.Error(err))
	}
}

func (s *Server) render(w http.ResponseWriter, view *reportView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := reportTmpl.Execute(w, view); err != nil {
		s.log.Error("template render failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
