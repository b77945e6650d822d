package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/bootstrap"
	"github.com/invoicer/backend/internal/infrastructure/auth"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/telemetry"
	"github.com/invoicer/backend/internal/interfaces/http/handler"
	"github.com/invoicer/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFile(os.Getenv("INVOICER_CONFIG"))
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting invoicer",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("catalog", cfg.Catalog.Driver),
		zap.String("interpreter", cfg.Interpreter.Provider),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := bootstrap.Build(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	log = app.Logger
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.Close(ctx); err != nil {
			log.Error("Error releasing resources", zap.Error(err))
		}
	}()

	log.Info("Telemetry",
		zap.Bool("traces", app.Tracer.IsEnabled()),
		zap.Bool("metrics", app.Meter.IsEnabled()),
		zap.Bool("logs", app.Logs.IsEnabled()),
		zap.Bool("profiling", app.Profiler.IsEnabled()),
		zap.Bool("span_profiles", app.Tracer.SpanProfilesEnabled()),
	)

	checks := make(map[string]handler.HealthCheck)
	for name, check := range app.HealthChecks() {
		checks[name] = check
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	routerCfg := router.Config{
		ServiceName:      cfg.Telemetry.ServiceName,
		Logger:           log,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		TracingEnabled:   cfg.Telemetry.Enabled,
		Meter:            app.Meter.Meter("invoicer/http"),
		ProfilingEnabled: app.Profiler.IsEnabled(),
	}
	if cfg.Auth.Enabled {
		routerCfg.JWT = auth.NewJWTService(cfg.Auth)
		log.Info("API token authentication enabled", zap.String("issuer", cfg.Auth.Issuer))
	} else {
		log.Warn("API token authentication disabled")
	}

	engine := router.NewEngine(routerCfg, router.Handlers{
		Company: handler.NewCompanyHandler(app.Catalog),
		Invoice: handler.NewInvoiceHandler(app.Invoices),
		Health:  handler.NewHealthHandler(cfg.App.Name, telemetry.ServiceVersion, checks),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
