package model

import "time"

// PredictionResult is the output of one scoring call. PreviousPrice is the
// lag feature the regressor was given, returned so callers can show the
// provenance of the number.
type PredictionResult struct {
	Crop          string    `json:"crop"`
	City          string    `json:"city"`
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	PreviousPrice float64   `json:"previous_price"`
}

// AuditStatus classifies how a prediction request ended.
type AuditStatus string

const (
	AuditStatusOK       AuditStatus = "ok"
	AuditStatusRejected AuditStatus = "rejected"
	AuditStatusFailed   AuditStatus = "failed"
)

// AuditEntry is one row of the prediction request log.
type AuditEntry struct {
	ID            string      `json:"id"`
	Crop          string      `json:"crop"`
	City          string      `json:"city"`
	PlantingDate  time.Time   `json:"planting_date"`
	TargetDate    time.Time   `json:"target_date"`
	Price         float64     `json:"price,omitempty"`
	PreviousPrice float64     `json:"previous_price,omitempty"`
	Status        AuditStatus `json:"status"`
	Detail        string      `json:"detail,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
