package inbound

import (
	"github.com/shandysiswandi/otpserver/internal/code/usecase"
	"github.com/shandysiswandi/otpserver/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for issuing and verifying one-time codes.
type HTTPEndpoint struct {
	uc uc
}

// CodeIssue returns the code for the current time step.
//
// interval and id are read from the query string and may be overridden by an
// optional JSON body.
func (h *HTTPEndpoint) CodeIssue(r *router.Request) (any, error) {
	interval, err := r.GetQueryInt64("interval")
	if err != nil {
		return nil, err
	}

	req := CodeIssueRequest{Interval: interval, ID: r.GetQueryRaw("id")}
	if err := r.DecodeOptionalBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CodeIssue(r.Context(), usecase.CodeIssueInput{
		Interval: req.Interval,
		ID:       req.ID,
	})
	if err != nil {
		return nil, err
	}

	return CodeIssueResponse{
		Code:     resp.Code,
		Interval: resp.Interval,
		ID:       resp.ID,
	}, nil
}

// CodeVerify checks a submitted code and answers 204 when it matches.
func (h *HTTPEndpoint) CodeVerify(r *router.Request) (any, error) {
	interval, err := r.GetQueryInt64("interval")
	if err != nil {
		return nil, err
	}

	req := CodeVerifyRequest{Interval: interval, ID: r.GetQueryRaw("id")}
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.CodeVerify(r.Context(), usecase.CodeVerifyInput{
		Code:     req.Code,
		Interval: req.Interval,
		ID:       req.ID,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}
