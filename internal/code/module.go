package code

import (
	"github.com/shandysiswandi/otpserver/internal/code/entity"
	"github.com/shandysiswandi/otpserver/internal/code/inbound"
	"github.com/shandysiswandi/otpserver/internal/code/usecase"
	"github.com/shandysiswandi/otpserver/internal/pkg/clock"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/otp"
	"github.com/shandysiswandi/otpserver/internal/pkg/router"
	"github.com/shandysiswandi/otpserver/internal/pkg/validator"
)

type Dependency struct {
	Secret     entity.Secret              `validate:"required"`
	Skew       uint                       `validate:"lte=10"`
	Router     *router.Router             `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	OTP        otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Secret:     dep.Secret,
		Skew:       dep.Skew,
		OTP:        dep.OTP,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
