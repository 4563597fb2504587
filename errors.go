package openmeteo

import (
	"errors"
	"fmt"
)

// Err is the base error for this package. Every error returned by the client
// satisfies errors.Is(err, openmeteo.Err), so callers can catch the whole
// family or branch on the specific kind below.
var Err = errors.New("openmeteo")

var (
	// ErrAPI means the upstream service was reachable but returned an error
	// status or an error payload with a reason.
	ErrAPI = fmt.Errorf("%w: API error", Err)

	// ErrConnection means the HTTP request itself failed: DNS, timeout,
	// TCP-level errors. Callers decide retry policy; the client never retries.
	ErrConnection = fmt.Errorf("%w: connection error", Err)

	// ErrValidation means the input parameters were rejected before any
	// network or cache I/O.
	ErrValidation = fmt.Errorf("%w: validation error", Err)
)
