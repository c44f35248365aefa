package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpserver/internal/code"
	"github.com/shandysiswandi/otpserver/internal/health"
)

func (a *App) initModules() {
	health.New(a.router)

	if err := code.New(code.Dependency{
		Secret:     a.secret,
		Skew:       a.config.GetUint("otp.skew"),
		Router:     a.router,
		Instrument: a.ins,
		Clock:      a.clock,
		OTP:        a.otp,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module code", "error", err)
		os.Exit(1)
	}
}
