package inbound

import (
	"context"

	"github.com/shandysiswandi/otpserver/internal/code/usecase"
	"github.com/shandysiswandi/otpserver/internal/pkg/router"
)

type uc interface {
	CodeIssue(ctx context.Context, in usecase.CodeIssueInput) (*usecase.CodeIssueOutput, error)
	CodeVerify(ctx context.Context, in usecase.CodeVerifyInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/code", end.CodeIssue)
	r.POST("/code", end.CodeIssue)

	r.PUT("/code/verify", end.CodeVerify)
	r.POST("/code/verify", end.CodeVerify)
}
