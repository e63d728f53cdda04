package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmwork/config"
	"farmwork/database"
	"farmwork/entities"
	"farmwork/pkg/logging"
	"farmwork/pkg/metrics"
	"farmwork/pkg/middleware"
	"farmwork/router"

	// Assignment
	asgCtrlImp "farmwork/pkg/assignment/controllerImp"
	asgRepoImp "farmwork/pkg/assignment/repositoryImp"
	asgSvcImp "farmwork/pkg/assignment/serviceImp"

	// Auth + Health
	authCtrlImp "farmwork/pkg/auth/controllerImp"
	healthCtrlImp "farmwork/pkg/health/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	// stdlib log and slog callers share the same handler from here on
	slog.SetDefault(log.Slog())
	log.Info("config loaded", "config", cfg.Redacted())

	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		log.Error("AUTH_ENABLED requires JWT_SECRET")
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error("load time zone", "tz", cfg.Timezone, "err", err)
		os.Exit(1)
	}

	// 2) DB (sqlite) + migrations + overlap triggers
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Error("open database", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}

	// 3) Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewPrometheus(reg, "farmwork")

	// 4) Repos/Services/Controllers
	asgSvc := asgSvcImp.NewAssignmentService(
		asgRepoImp.New(db),
		asgSvcImp.WithLogger(log),
		asgSvcImp.WithMetrics(rec),
		asgSvcImp.WithLocation(loc),
	)
	asgCtrl := asgCtrlImp.New(asgSvc)
	authCtrl := authCtrlImp.NewAuthController([]byte(cfg.JWTSecret))
	hCtrl := healthCtrlImp.NewHealthCtrl(db, log)

	auth := middleware.DevLogin()
	if cfg.AuthEnabled {
		auth = middleware.JWT([]byte(cfg.JWTSecret))
	} else {
		log.Warn("authentication disabled, every caller acts as FARM_OWNER")
	}

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			log.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(echoMiddleware.ContextTimeout(cfg.RequestTimeout))

	router.New(e, asgCtrl, authCtrl, hCtrl, router.Options{
		Log:          log,
		Auth:         auth,
		RequireOwner: middleware.RequireRole(entities.RoleFarmOwner),
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		DevToken:     cfg.DevLogin && cfg.JWTSecret != "",
	})

	// 6) Start + graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("bye")
}
