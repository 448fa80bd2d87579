package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovision/cropcast/internal/advisor"
	"github.com/agrovision/cropcast/internal/history"
	"github.com/agrovision/cropcast/internal/model"
	"github.com/agrovision/cropcast/internal/predictor"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// stubService drives the handler without a trained model.
type stubService struct {
	price float64
	err   error
}

func (s *stubService) Predict(_ context.Context, crop, city string, targetDate, _ time.Time) (*model.PredictionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.PredictionResult{
		Crop: crop, City: city, Date: targetDate,
		Price: s.price, PreviousPrice: s.price - 100,
	}, nil
}

func newTestServer(svc advisor.PriceService) *Server {
	hist := history.NewIndex([]model.PriceObservation{
		{Date: day(2022, 10, 5), Crop: "Wheat", City: "Pune", Price: 1900},
		{Date: day(2023, 10, 1), Crop: "Wheat", City: "Pune", Price: 2100},
		{Date: day(2023, 10, 2), Crop: "Wheat", City: "Pune", Price: 2200},
	})
	adv := advisor.New(svc, advisor.DefaultTables())
	return NewServer(svc, adv, hist, nil, nil,
		[]string{"Maize", "Wheat"}, []string{"Mumbai", "Pune"}, "")
}

func postForm(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"crop_name":       {"Wheat"},
		"city_name":       {"Pune"},
		"yield":           {"10"},
		"planting_date":   {"2023-06-01"},
		"prediction_date": {"2023-10-15"},
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubService{price: 2000})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetForm(t *testing.T) {
	srv := newTestServer(&stubService{price: 2000})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="crop_name"`)
	assert.Contains(t, body, "Wheat")
	assert.Contains(t, body, "Pune")
	assert.NotContains(t, body, "Prediction Results")
}

func TestPostPredict_Success(t *testing.T) {
	srv := newTestServer(&stubService{price: 2300})
	rec := postForm(t, srv.Router(), validForm())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Prediction Results")
	assert.Contains(t, body, "2300.00")
	// Monthly stats for October come from the history index.
	assert.Contains(t, body, "October")
	// Recent prices table shows the newest observation.
	assert.Contains(t, body, "2023-10-02")
	// June planting is monsoon: unfavorable for Wheat.
	assert.Contains(t, body, "waterlogging")
}

func TestPostPredict_FieldValidation(t *testing.T) {
	srv := newTestServer(&stubService{price: 2000})
	router := srv.Router()

	tests := []struct {
		name    string
		mutate  func(url.Values)
		message string
	}{
		{
			name:    "missing field",
			mutate:  func(f url.Values) { f.Del("yield") },
			message: "All fields are required.",
		},
		{
			name:    "non-numeric yield",
			mutate:  func(f url.Values) { f.Set("yield", "abc") },
			message: "Yield must be a valid number.",
		},
		{
			name:    "zero yield",
			mutate:  func(f url.Values) { f.Set("yield", "0") },
			message: "Yield must be greater than 0.",
		},
		{
			name:    "bad planting date",
			mutate:  func(f url.Values) { f.Set("planting_date", "06/01/2023") },
			message: "Invalid planting date format. Use YYYY-MM-DD (e.g., 2025-03-26).",
		},
		{
			name:    "bad prediction date",
			mutate:  func(f url.Values) { f.Set("prediction_date", "soon") },
			message: "Invalid prediction date format. Use YYYY-MM-DD (e.g., 2025-03-26).",
		},
		{
			name: "dates out of order",
			mutate: func(f url.Values) {
				f.Set("planting_date", "2023-10-15")
				f.Set("prediction_date", "2023-06-01")
			},
			message: "Prediction date must be after the planting date.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			rec := postForm(t, router, form)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.NotContains(t, rec.Body.String(), "Prediction Results")
		})
	}
}

func TestPostPredict_InputErrorFromService(t *testing.T) {
	svc := &stubService{err: &predictor.InputError{
		Field:   "crop_name",
		Message: "Saffron not found. Available crops: Maize, Wheat",
	}}
	srv := newTestServer(svc)

	form := validForm()
	form.Set("crop_name", "Saffron")
	rec := postForm(t, srv.Router(), form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Saffron not found. Available crops: Maize, Wheat")
}

func TestPostPredict_InternalErrorIsGeneric(t *testing.T) {
	svc := &stubService{err: eris.New("tree 17 exploded")}
	srv := newTestServer(svc)

	rec := postForm(t, srv.Router(), validForm())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Prediction failed: verify model and feature alignment.")
	assert.NotContains(t, body, "tree 17 exploded")
}

func TestPostPredict_SuggestionsShownOnFailure(t *testing.T) {
	// The weather and soil sections do not depend on the prediction call.
	svc := &stubService{err: &predictor.NoDataError{Crop: "Wheat", City: "Pune"}}
	srv := newTestServer(svc)

	rec := postForm(t, srv.Router(), validForm())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "no historical price data for Wheat in Pune")
	assert.Contains(t, body, "black")
}
