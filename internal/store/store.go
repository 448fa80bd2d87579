package store

import (
	"context"
	"time"

	"github.com/agrovision/cropcast/internal/model"
)

// AuditFilter specifies criteria for listing logged prediction requests.
type AuditFilter struct {
	Crop   string            `json:"crop,omitempty"`
	City   string            `json:"city,omitempty"`
	Status model.AuditStatus `json:"status,omitempty"`
	Since  time.Time         `json:"since,omitempty"`
	Limit  int               `json:"limit,omitempty"`
}

// Store defines the persistence interface: the consolidated observation
// table and the prediction request audit log.
type Store interface {
	// Observations
	ReplaceObservations(ctx context.Context, rows []model.PriceObservation) error
	LoadObservations(ctx context.Context) ([]model.PriceObservation, error)
	CountObservations(ctx context.Context) (int, error)

	// Audit log
	LogPrediction(ctx context.Context, entry model.AuditEntry) (string, error)
	ListPredictions(ctx context.Context, filter AuditFilter) ([]model.AuditEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
