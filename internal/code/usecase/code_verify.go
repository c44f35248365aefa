package usecase

import (
	"context"
	"log/slog"
	"math"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpserver/internal/pkg/clock"
	"github.com/shandysiswandi/otpserver/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MsgCodeRejected is returned to the caller for every failed verification.
const MsgCodeRejected = "Your code is incorrect or has expired."

type CodeVerifyInput struct {
	Code     *uint32 `validate:"required"`
	Interval *int64  `validate:"omitempty,gt=0"`
	ID       string
}

func (s *Usecase) CodeVerify(ctx context.Context, in CodeVerifyInput) error {
	ctx, span := s.startSpan(ctx, "CodeVerify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	interval := uint64(lo.FromPtrOr(in.Interval, DefaultInterval))

	now, err := clock.UnixSeconds(s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to read system clock", "error", err)
		return goerror.NewServer(err)
	}

	ok, err := s.verify(s.secret.Derive(in.ID), *in.Code, interval, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify totp code", "interval", interval, "error", err)
		return goerror.NewServer(err)
	}

	s.recordVerify(ctx, ok)

	if !ok {
		slog.WarnContext(ctx, "invalid totp code", "id", in.ID, "interval", interval)
		return goerror.NewBusiness(MsgCodeRejected, goerror.CodeUnauthorized)
	}

	return nil
}

// verify checks the current time step and, when skew is configured, the skew
// steps on either side of it. Every candidate is checked so the time taken
// does not depend on which step matched.
func (s *Usecase) verify(secret []byte, code uint32, interval, now uint64) (bool, error) {
	if s.skew == 0 {
		return s.otp.Verify(secret, code, interval, now)
	}

	counter := now / interval
	first := counter - min(counter, s.skew)
	last := counter + min(s.skew, math.MaxUint64-counter)

	matched := false
	for i := uint64(0); i <= last-first; i++ {
		if s.otp.VerifyCounter(secret, code, first+i) {
			matched = true
		}
	}

	return matched, nil
}

func (s *Usecase) recordVerify(ctx context.Context, ok bool) {
	if s.verified == nil {
		return
	}

	result := "rejected"
	if ok {
		result = "accepted"
	}
	s.verified.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
