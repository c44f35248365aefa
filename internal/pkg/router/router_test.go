package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/otpserver/internal/pkg/config"
	"github.com/shandysiswandi/otpserver/internal/pkg/goerror"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/validator"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newTestRouter(t *testing.T, cfg config.Config) *Router {
	t.Helper()

	return NewRouter(Config{
		Config:     cfg,
		UUID:       fixedID("cid-1"),
		Instrument: instrument.NewNoop(),
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, nil)
	r.GET("/ping", func(*Request) (any, error) { return map[string]string{"ok": "yes"}, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Message != "endpoint not found" {
		t.Fatalf("unexpected 404 response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ping", nil))
	if rec.Code != http.StatusMethodNotAllowed || decodeError(t, rec).Message != "method not allowed" {
		t.Fatalf("unexpected 405 response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ErrorCodec(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required"`
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantField  string
	}{
		{name: "server", err: goerror.NewServer(errors.New("db down")), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
		{name: "unclassified", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
		{name: "format", err: goerror.NewInvalidFormat(), wantStatus: http.StatusBadRequest},
		{name: "unauthorized", err: goerror.NewBusiness("nope", goerror.CodeUnauthorized), wantStatus: http.StatusUnauthorized, wantMsg: "nope"},
		{name: "validation", err: goerror.NewInvalidInput(v.Validate(input{})), wantStatus: http.StatusBadRequest, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, nil)
			r.POST("/fail", func(*Request) (any, error) { return nil, tt.err })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fail", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeError(t, rec)
			if resp.Message == "" {
				t.Fatal("expected a message")
			}
			if tt.wantMsg != "" && resp.Message != tt.wantMsg {
				t.Fatalf("message: got %q want %q", resp.Message, tt.wantMsg)
			}
			if strings.Contains(rec.Body.String(), "db down") {
				t.Fatalf("internal error leaked: %s", rec.Body.String())
			}
			if tt.wantField != "" {
				if _, ok := resp.Error[tt.wantField]; !ok {
					t.Fatalf("expected field %q in %v", tt.wantField, resp.Error)
				}
			}
		})
	}
}

func TestRouter_SuccessEncoding(t *testing.T) {
	r := newTestRouter(t, nil)
	r.GET("/json", func(*Request) (any, error) { return map[string]int{"code": 42}, nil })
	r.PUT("/empty", func(*Request) (any, error) { return nil, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/json", nil))
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if strings.TrimSpace(rec.Body.String()) != `{"code":42}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get(HeaderCorrelationID) != "cid-1" {
		t.Fatalf("expected correlation id header, got %q", rec.Header().Get(HeaderCorrelationID))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/empty", nil))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_CorrelationIDFromHeader(t *testing.T) {
	r := newTestRouter(t, nil)

	var seen string
	r.GET("/cid", func(req *Request) (any, error) {
		seen = instrument.GetCorrelationID(req.Context())
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/cid", nil)
	req.Header.Set(HeaderRequestID, "upstream-id")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen != "upstream-id" || rec.Header().Get(HeaderCorrelationID) != "upstream-id" {
		t.Fatalf("got ctx %q header %q", seen, rec.Header().Get(HeaderCorrelationID))
	}
}

func TestRouter_RecoversPanic(t *testing.T) {
	r := newTestRouter(t, nil)
	r.GET("/panic", func(*Request) (any, error) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError || decodeError(t, rec).Message != "Internal server error" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Maintenance(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    endpoints: /down\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	t.Cleanup(func() { _ = cfg.Close() })

	r := newTestRouter(t, cfg)
	r.GET("/down", func(*Request) (any, error) { return map[string]string{}, nil })
	r.GET("/up", func(*Request) (any, error) { return map[string]string{}, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/down", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d want 503", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
}

func TestRouter_GETRaw(t *testing.T) {
	r := newTestRouter(t, nil)
	r.GETRaw("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/raw", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
