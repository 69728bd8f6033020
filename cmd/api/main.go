// @title Quiz Forge API
// @version 1.0
// @description Generates, edits and exports quiz questions from source material.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-forge/cmd/api/docs"
	"quiz-forge/internal/adapter/export"
	"quiz-forge/internal/adapter/renderer"
	"quiz-forge/internal/bootstrap"
	"quiz-forge/internal/config"
	"quiz-forge/internal/handler"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/metrics"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefs, redisClient, err := bootstrap.NewPreferenceStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize preference store", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	caller, err := bootstrap.NewModelCaller(cfg, prefs, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create model caller", zap.Error(err))
	}
	if closer, ok := caller.(io.Closer); ok {
		defer closer.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	view := renderer.NewViewRenderer()
	core, err := bootstrap.BuildCore(cfg, caller, prefs, view, appMetrics, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build generation core", zap.Error(err))
	}
	view.Bind(core.Controller.InFlight, core.Gate.Pending)

	scheduler := service.NewTriggerScheduler(ctx, core.Controller, prefs, cfg.Generation.Debounce, appLogger)
	defer scheduler.Stop()

	// Initialize handlers
	validator := validation.NewValidator()
	generationHandler := handler.NewGenerationHandler(core.Controller, scheduler, view, export.NewJSONExporter())
	preferencesHandler := handler.NewPreferencesHandler(core.Gate, scheduler, prefs)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	handler.RegisterRoutes(app, generationHandler, preferencesHandler, middleware.NewValidationMiddleware(validator))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		scheduler.Stop()
		if err := core.Controller.Shutdown(shutdownCtx); err != nil {
			appLogger.Warn("Generation did not stop in time", zap.Error(err))
		}
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully")
}
