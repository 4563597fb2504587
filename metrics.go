package openmeteo

import (
	"net/http"

	"github.com/openmeteo-go/openmeteo/internal/observability"
)

// MetricsHandler returns an http.Handler serving the library's prometheus
// metrics (API calls and latency by endpoint, cache hits/misses, historical
// months fetched). The registry is private to this module, so embedding
// applications mount this handler wherever they like without registration
// collisions:
//
//	mux.Handle("/metrics", openmeteo.MetricsHandler())
func MetricsHandler() http.Handler {
	return observability.Handler()
}
