package openmeteo

import (
	"fmt"
	"time"
)

// validateCoordinates rejects latitudes outside [-90, 90] and longitudes
// outside [-180, 180] before any cache or network I/O.
func validateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: latitude must be in [-90, 90], got %g", ErrValidation, latitude)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: longitude must be in [-180, 180], got %g", ErrValidation, longitude)
	}
	return nil
}

// validateDateRange enforces start <= end and, for historical requests,
// rejects end dates after today (UTC).
func validateDateRange(start, end, today time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: start date %s must not be after end date %s",
			ErrValidation, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if end.After(today) {
		return fmt.Errorf("%w: end date %s is in the future for historical data",
			ErrValidation, end.Format("2006-01-02"))
	}
	return nil
}

func validateForecastDays(days int) error {
	if days < 1 || days > MaxForecastDays {
		return fmt.Errorf("%w: forecast days must be in [1, %d], got %d",
			ErrValidation, MaxForecastDays, days)
	}
	return nil
}

func validateStep(step TimeStep) error {
	switch step {
	case StepHourly, StepDaily:
		return nil
	}
	return fmt.Errorf("%w: unknown time step %q", ErrValidation, string(step))
}
