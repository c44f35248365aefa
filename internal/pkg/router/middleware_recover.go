package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:errorlint // sentinel must be re-panicked as is
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			stack := debug.Stack()
			if frames := internalFrames(stack); len(frames) > 0 {
				slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", frames)
			} else {
				slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", string(stack))
			}

			writeJSON(w, errorResponse{Message: msgInternal}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// internalFrames keeps the "internal/<pkg>/<file>.go:<line>" location of every
// stack frame that belongs to this module.
func internalFrames(stack []byte) []string {
	var frames []string
	for line := range strings.SplitSeq(string(stack), "\n") {
		line = strings.TrimSpace(line)
		_, rest, ok := strings.Cut(line, "/internal/")
		if !ok || !strings.Contains(rest, ".go:") {
			continue
		}
		loc, _, _ := strings.Cut(rest, " ")
		frames = append(frames, "internal/"+loc)
	}
	return frames
}
