package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpserver/internal/code/entity"
	"github.com/shandysiswandi/otpserver/internal/pkg/clock"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/otp"
	"github.com/shandysiswandi/otpserver/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultInterval is the time step, in seconds, used when a request omits one.
const DefaultInterval int64 = 60

// MaxSkew bounds the drift tolerance, in time steps on each side of the
// current one. Larger values are clamped.
const MaxSkew uint = 10

type Usecase struct {
	secret    entity.Secret
	skew      uint64
	otp       otp.OTP
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation

	issued   metric.Int64Counter
	verified metric.Int64Counter
}

type Dependency struct {
	Secret     entity.Secret
	Skew       uint
	OTP        otp.OTP
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("code.usecase")

	issued, err := meter.Int64Counter("otp.code.issued", metric.WithDescription("Number of one-time codes issued"))
	if err != nil {
		slog.Error("failed to create otp issued counter", "error", err)
	}

	verified, err := meter.Int64Counter("otp.code.verified", metric.WithDescription("Number of one-time code verifications by result"))
	if err != nil {
		slog.Error("failed to create otp verified counter", "error", err)
	}

	return &Usecase{
		secret:    dep.Secret,
		skew:      uint64(min(dep.Skew, MaxSkew)),
		otp:       dep.OTP,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
		issued:    issued,
		verified:  verified,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("code.usecase").Start(ctx, name)
}
