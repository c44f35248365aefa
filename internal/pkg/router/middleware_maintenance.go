package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpserver/internal/pkg/config"
)

// middlewareMaintenance answers 503 for the route patterns listed in
// app.maintenance.endpoints, e.g. "/code/verify".
func middlewareMaintenance(cfg config.Config) Middleware {
	blocked := make(map[string]bool)
	if cfg != nil {
		for _, route := range cfg.GetArray("app.maintenance.endpoints") {
			if route = strings.TrimSpace(route); route != "" {
				blocked[route] = true
			}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(blocked) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if blocked[matchedRoutePath(r)] {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
