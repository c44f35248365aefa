package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpserver/internal/pkg/config"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Request and response bodies are small JSON documents; anything above this
// is truncated in the log line.
const maxLoggedBody = 4 * 1024

// responseRecorder captures the status, size and a bounded copy of the body,
// and receives the handler error through SetError.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	body   bytes.Buffer
	err    error
}

func (w *responseRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if room := maxLoggedBody - w.body.Len(); room > 0 {
		w.body.Write(p[:min(len(p), room)])
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *responseRecorder) SetError(err error) {
	w.err = err
}

func (w *responseRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// peekBody reads up to maxLoggedBody bytes and puts them back in front of the
// remaining stream so the handler still sees the full body.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody)) //nolint:errcheck // logging only
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	return head
}

// loggableBody decodes JSON bodies so masking can apply per field. Other
// payloads are logged as text, or omitted when not valid UTF-8.
func loggableBody(body []byte, masker *instrument.Masker) any {
	if len(body) == 0 {
		return nil
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err == nil {
		return masker.Value(doc)
	}
	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	return string(body)
}

func loggableHeaders(h http.Header, masker *instrument.Masker) http.Header {
	out := h.Clone()
	for key := range out {
		if masker.Hides(key) {
			out.Set(key, "***")
		}
	}
	return out
}

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter) httpMetrics {
	var m httpMetrics
	var err error

	m.requests, err = meter.Int64Counter("http.server.requests", metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	m.duration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return m
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	var maskFields []string
	if cfg != nil {
		maskFields = cfg.GetArray("instrument.log_mask_fields")
	}
	masker := instrument.NewMasker(maskFields)
	tracer := ins.Tracer("http.server")
	metrics := newHTTPMetrics(ins.Meter("http.server"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := matchedRoutePath(r)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
				),
			)
			defer span.End()

			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"uri", r.RequestURI,
				"remote_addr", r.RemoteAddr,
				"headers", loggableHeaders(r.Header, masker),
				"body", loggableBody(peekBody(r), masker),
			)

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusCode()
			elapsed := time.Since(start)
			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			span.SetAttributes(attrs...)
			span.SetAttributes(semconv.HTTPResponseBodySize(rec.bytes))
			if rec.err != nil {
				span.RecordError(rec.err)
			}
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			if metrics.requests != nil {
				metrics.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
			}
			if metrics.duration != nil {
				metrics.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(attrs...))
			}

			slog.InfoContext(ctx, "response sent",
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", rec.bytes,
				"latency_ms", elapsed.Milliseconds(),
				"body", loggableBody(rec.body.Bytes(), masker),
			)
		})
	}
}
