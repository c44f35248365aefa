package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/otpserver/internal/code/entity"
	"github.com/shandysiswandi/otpserver/internal/pkg/clock"
	"github.com/shandysiswandi/otpserver/internal/pkg/config"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/otp"
	"github.com/shandysiswandi/otpserver/internal/pkg/router"
	"github.com/shandysiswandi/otpserver/internal/pkg/uid"
	"github.com/shandysiswandi/otpserver/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation
	secret entity.Secret

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	otp       otp.OTP

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	return newApp(clock.New())
}

// newApp builds the App around clk, the only time source of the code module.
func newApp(clk clock.Clocker) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		clock:  clk,
	}

	app.initConfig()
	app.initInstrument()
	app.initSecret()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
