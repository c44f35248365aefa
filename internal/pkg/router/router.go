package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpserver/internal/pkg/config"
	"github.com/shandysiswandi/otpserver/internal/pkg/goerror"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/uid"
	"github.com/shandysiswandi/otpserver/internal/pkg/validator"
)

const msgInternal = "Internal server error"

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

// Handler returns a payload to encode as JSON, or an error to map through
// goerror. A nil payload answers 204 No Content.
type Handler func(r *Request) (any, error)

// Config holds what the router and its middleware need.
type Config struct {
	// Config is optional; without it nothing is masked and no route is in maintenance.
	Config config.Config
	// UUID generates correlation ids for requests that arrive without one.
	UUID uid.StringID
	// Instrument provides the tracer and meter used per request.
	Instrument instrument.Instrumentation
}

// Router is an http.Handler backed by httprouter. Every route shares the same
// middleware chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds a Router with JSON 404/405 answers and the standard chain:
// recover, client ip, correlation id, observability, maintenance.
func NewRouter(cfg Config) *Router {
	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Router{
		hr: &httprouter.Router{
			RedirectTrailingSlash:  true,
			RedirectFixedPath:      true,
			HandleMethodNotAllowed: true,
			HandleOPTIONS:          true,
			SaveMatchedRoutePath:   true,
			NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
			}),
			MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
			}),
		},
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, ins),
			middlewareMaintenance(cfg.Config),
		},
	}
}

// GET registers h for GET requests on path.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodGet, path, h, mws)
}

// POST registers h for POST requests on path.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodPost, path, h, mws)
}

// PUT registers h for PUT requests on path.
func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodPut, path, h, mws)
}

// GETRaw registers a plain http.Handler that writes its own response.
func (r *Router) GETRaw(path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(http.MethodGet, path, Chain(h, append(r.mws, mws...)...))
}

func (r *Router) handle(method, path string, h Handler, mws []Middleware) {
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if rec, ok := w.(interface{ SetError(error) }); ok {
				rec.SetError(err)
			}
			writeError(req, w, err)
			return
		}

		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, resp, http.StatusOK)
	})

	r.hr.Handler(method, path, Chain(endpoint, append(r.mws, mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// writeError maps err to its status and public message. Errors outside the
// goerror taxonomy are logged and answered as 500 without detail.
func writeError(req *http.Request, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(req.Context(), "unclassified error reached the router", "error", err)
		writeJSON(w, errorResponse{Message: msgInternal}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}

	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Values()
	}

	writeJSON(w, resp, gerr.StatusCode())
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}
