package inbound

import (
	"net/http"

	"github.com/shandysiswandi/otpserver/internal/pkg/router"
)

// RegisterHTTPEndpoint mounts the liveness probe. It answers 200 with an empty
// body and touches neither the secret nor the clock.
func RegisterHTTPEndpoint(r *router.Router) {
	r.GETRaw("/health-check", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}
