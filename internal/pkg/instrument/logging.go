package instrument

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const maskedValue = "***"

// Masker hides the values of configured field names. Matching is case-insensitive
// and applies at any depth of a decoded JSON document.
type Masker struct {
	keys map[string]struct{}
}

// NewMasker builds a Masker from field names; blank names are ignored.
func NewMasker(fields []string) *Masker {
	keys := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if field = strings.ToLower(strings.TrimSpace(field)); field != "" {
			keys[field] = struct{}{}
		}
	}
	return &Masker{keys: keys}
}

// Hides reports whether values under key are masked.
func (m *Masker) Hides(key string) bool {
	if m == nil || len(m.keys) == 0 {
		return false
	}
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

// Value returns v with masked fields replaced. Only map[string]any and []any
// are walked, which is what encoding/json produces for untyped documents.
func (m *Masker) Value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.Hides(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.Value(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.Value(inner)
		}
		return out
	default:
		return v
	}
}

func (m *Masker) attr(a slog.Attr) slog.Attr {
	if m.Hides(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = m.attr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	case slog.KindAny:
		switch a.Value.Any().(type) {
		case map[string]any, []any:
			return slog.Any(a.Key, m.Value(a.Value.Any()))
		}
	}

	return a
}

func initLogging(serviceName string, lp *sdklog.LoggerProvider, maskFields []string, level slog.Level) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, serviceName, lp, maskFields, level)))
}

// newHandler writes JSON lines to w and, when lp is set, forwards records to
// the OTLP log pipeline as well.
func newHandler(w io.Writer, serviceName string, lp *sdklog.LoggerProvider, maskFields []string, level slog.Level) slog.Handler {
	sinks := []slog.Handler{
		slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			AddSource:   true,
			ReplaceAttr: replaceAttr,
		}),
	}
	if lp != nil {
		sinks = append(sinks, otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(lp)))
	}

	return &recordHandler{
		sinks:       sinks,
		masker:      NewMasker(maskFields),
		serviceName: serviceName,
	}
}

// replaceAttr renames the envelope keys and shortens source paths to the
// module-relative internal/ path. Sources outside internal/ are dropped.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", fmt.Sprintf("internal/%s:%d", rel, src.Line))
	}
	return a
}

// recordHandler masks attributes, stamps service and correlation id, and fans
// records out to every sink that accepts the level.
type recordHandler struct {
	sinks       []slog.Handler
	masker      *Masker
	serviceName string
}

func (h *recordHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *recordHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.masker.attr(a))
		return true
	})
	if cID := GetCorrelationID(ctx); cID != "" {
		out.AddAttrs(slog.String("_cID", cID))
	}
	out.AddAttrs(slog.String("service", h.serviceName))

	var errs []error
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, r.Level) {
			errs = append(errs, sink.Handle(ctx, out.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *recordHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.masker.attr(a)
	}
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(masked) })
}

func (h *recordHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *recordHandler) derive(fn func(slog.Handler) slog.Handler) *recordHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = fn(sink)
	}
	return &recordHandler{sinks: sinks, masker: h.masker, serviceName: h.serviceName}
}
