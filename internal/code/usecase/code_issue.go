package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpserver/internal/pkg/clock"
	"github.com/shandysiswandi/otpserver/internal/pkg/goerror"
)

type CodeIssueInput struct {
	Interval *int64 `validate:"omitempty,gt=0"`
	ID       string
}

type CodeIssueOutput struct {
	Code     uint32
	Interval uint64
	ID       string
}

func (s *Usecase) CodeIssue(ctx context.Context, in CodeIssueInput) (*CodeIssueOutput, error) {
	ctx, span := s.startSpan(ctx, "CodeIssue")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	interval := uint64(lo.FromPtrOr(in.Interval, DefaultInterval))

	now, err := clock.UnixSeconds(s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to read system clock", "error", err)
		return nil, goerror.NewServer(err)
	}

	code, counter, err := s.otp.GenerateTOTP(s.secret.Derive(in.ID), interval, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp code", "interval", interval, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.issued != nil {
		s.issued.Add(ctx, 1)
	}
	slog.InfoContext(ctx, "code issued", "id", in.ID, "interval", interval, "counter", counter)

	return &CodeIssueOutput{
		Code:     code,
		Interval: interval,
		ID:       in.ID,
	}, nil
}
