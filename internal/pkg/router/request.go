package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/otpserver/internal/pkg/goerror"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetQuery returns the trimmed query parameter value for key.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryRaw returns the query parameter value for key exactly as sent.
// Use it for values that are key material, where whitespace is significant.
func (r *Request) GetQueryRaw(key string) string {
	return r.URL.Query().Get(key)
}

// GetQueryInt64 parses an optional integer query parameter.
// A missing parameter yields nil.
func (r *Request) GetQueryInt64(key string) (*int64, error) {
	queryValue := r.GetQuery(key)
	if queryValue == "" {
		return nil, nil
	}

	value, err := strconv.ParseInt(queryValue, 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidFormat("Invalid query " + key)
	}

	return &value, nil
}

// DecodeBody decodes the JSON body into dst.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return goerror.NewInvalidFormat()
	}

	return nil
}

// DecodeOptionalBody decodes the JSON body into dst when one is present.
// An absent or empty body leaves dst untouched.
func (r *Request) DecodeOptionalBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return goerror.NewInvalidFormat()
	}

	return nil
}
