package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the request correlation id in and out.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as an inbound fallback.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// inboundCorrelationID returns the first usable id the caller sent. Values
// containing line breaks are ignored to keep log lines intact.
func inboundCorrelationID(r *http.Request) string {
	for _, header := range []string{HeaderCorrelationID, HeaderRequestID} {
		v := r.Header.Get(header)
		if strings.ContainsAny(v, "\r\n") {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v[:min(len(v), maxCorrelationIDLen)]
		}
	}
	return ""
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := inboundCorrelationID(r)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
