package app

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/rs/cors"
	"github.com/shandysiswandi/otpserver/internal/code/entity"
	"github.com/shandysiswandi/otpserver/internal/pkg/config"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/otp"
	"github.com/shandysiswandi/otpserver/internal/pkg/router"
	"github.com/shandysiswandi/otpserver/internal/pkg/uid"
	"github.com/shandysiswandi/otpserver/internal/pkg/validator"
)

// DefaultPort is the listening port used when OTP_SERVER_PORT is not set.
const DefaultPort = "30624"

var configDefaults = map[string]any{
	"app.server.host":                             "0.0.0.0",
	"app.server.port":                             DefaultPort,
	"app.server.cors":                             "*",
	"app.server.http.read_timeout_seconds":        10,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       10,
	"app.server.http.idle_timeout_seconds":        60,
	"otp.skew":                                    0,
	"instrument.enabled":                          false,
	"instrument.service_name":                     "otp-server",
	"instrument.log_level":                        "info",
	"instrument.log_mask_fields":                  "code,secret",
	"instrument.trace_sample_ratio":               1,
	"instrument.metric_interval_seconds":          60,
}

var configEnv = map[string]string{
	"app.server.port":          "OTP_SERVER_PORT",
	"otp.secret":               "OTP_SERVER_SECRET",
	"otp.skew":                 "OTP_SERVER_SKEW",
	"instrument.enabled":       "OTP_SERVER_OTLP_ENABLED",
	"instrument.otlp_endpoint": "OTP_SERVER_OTLP_ENDPOINT",
	"instrument.log_level":     "OTP_SERVER_LOG_LEVEL",
}

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path, config.WithDefaults(configDefaults), config.WithEnv(configEnv))
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.config.GetString("instrument.log_level"))); err != nil {
		slog.Warn("invalid log level, falling back to info", "value", a.config.GetString("instrument.log_level"))
		level = slog.LevelInfo
	}

	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         level,
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initSecret() {
	secret, err := entity.NewSecret(a.config.GetString("otp.secret"))
	if err != nil {
		slog.Error("OTP_SERVER_SECRET is not set", "error", err)
		os.Exit(1)
	}
	a.secret = secret
}

func (a *App) initLibraries() {
	a.uuid = uid.NewUUID()
	a.otp = otp.New()

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              net.JoinHostPort(a.config.GetString("app.server.host"), a.config.GetString("app.server.port")),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
