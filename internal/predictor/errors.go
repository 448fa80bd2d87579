package predictor

import "fmt"

// InputError is a user-correctable request problem. It is surfaced to the
// caller as a field-level message and never carries internal detail.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// NoDataError means no historical observation exists for the requested
// (crop, city) pair, so no lag feature can be built.
type NoDataError struct {
	Crop string
	City string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no historical price data for %s in %s", e.Crop, e.City)
}
