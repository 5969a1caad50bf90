package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/hiraubaid75/ckd-prediction-system/internal/config"
	"github.com/hiraubaid75/ckd-prediction-system/internal/domain/ckd"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/dashboard"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/middleware"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/openapi"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/telemetry"
)

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	// Logger
	logger := newLogger(os.Getenv("ENV"))

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	logger = logger.Level(cfg.Level())

	// Classifier, loaded once for the life of the process. A missing or
	// invalid artifact leaves the server up with predictions disabled.
	model, loadErr := classifier.Load(cfg.ModelPath)
	if loadErr != nil {
		logger.Error().Err(loadErr).Str("path", cfg.ModelPath).Msg("classifier unavailable, predictions disabled")
	} else {
		info := model.Info()
		logger.Info().
			Str("path", cfg.ModelPath).
			Str("model", info.Name).
			Str("kind", info.Kind).
			Int("estimators", info.Estimators).
			Msg("classifier loaded")
	}

	tp := telemetry.NewTelemetryProvider(telemetry.TelemetryConfig{
		ServiceName:    "ckd-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
		MetricsEnabled: telemetry.BoolPtr(cfg.MetricsEnabled),
		ProcessMetrics: true,
	})
	tp.SetModelLoaded(loadErr == nil)

	svc := ckd.NewService(model, loadErr, logger, tp)
	warnSchemaMismatch(logger, svc)

	gallery, err := dashboard.LoadGallery(cfg.ChartsManifest, cfg.ImagesDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load chart manifest")
	}

	e, err := newServer(cfg, logger, svc, gallery, tp)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := cfg.Addr()
		logger.Info().Str("addr", addr).Bool("tls", cfg.TLSEnabled).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer assembles the echo instance: middleware, health and metrics
// endpoints, the JSON API and the dashboard.
func newServer(cfg *config.Config, logger zerolog.Logger, svc *ckd.Service, gallery *dashboard.Gallery, tp *telemetry.TelemetryProvider) (*echo.Echo, error) {
	renderer, err := dashboard.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(tp.MetricsMiddleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SanitizeWithLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		}))
	}
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		Skipper:           operationalPath,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":       "ok",
			"version":      version,
			"model_loaded": svc.Available(),
		})
	})
	if tp.Enabled() {
		e.GET("/metrics", tp.PrometheusHandler())
	}

	scheme := "http"
	if cfg.TLSEnabled {
		scheme = "https"
	}
	openapi.NewGenerator(version, fmt.Sprintf("%s://localhost:%s", scheme, cfg.Port)).RegisterRoutes(e.Group("/api"))

	apiV1 := e.Group("/api/v1")
	ckd.NewHandler(svc).RegisterRoutes(apiV1)

	dashboard.NewHandler(svc, gallery, cfg.ModelPath, logger).RegisterRoutes(e.Group(""))

	return e, nil
}

// operationalPath matches probes, scrapes and static assets, which are not
// rate limited.
func operationalPath(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/health" || p == "/metrics" || strings.HasPrefix(p, "/static/")
}

// warnSchemaMismatch logs when the classifier was trained on different
// columns than the form collects. Scoring will then fail per request.
func warnSchemaMismatch(logger zerolog.Logger, svc *ckd.Service) {
	unknown, uncollected := svc.SchemaMismatch()
	if len(unknown) == 0 && len(uncollected) == 0 {
		return
	}
	logger.Warn().
		Strs("fields_unknown_to_model", unknown).
		Strs("features_not_collected", uncollected).
		Msg("classifier features differ from the form fields")
}
