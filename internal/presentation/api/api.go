package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hilthontt/drift/internal/infrastructure/configs"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
	"github.com/hilthontt/drift/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/drift/internal/infrastructure/ws"
	adminHandler "github.com/hilthontt/drift/internal/presentation/handler/admin"
	healthHandler "github.com/hilthontt/drift/internal/presentation/handler/health"
	pagesHandler "github.com/hilthontt/drift/internal/presentation/handler/pages"
)

type Application struct {
	config        *configs.Config
	gateway       *ws.Gateway
	pagesHandler  *pagesHandler.Handler
	adminHandler  *adminHandler.Handler
	healthHandler *healthHandler.Handler
	logger        logging.Logger
	ratelimiter   ratelimiter.Limiter
}

func NewApplication(
	config *configs.Config,
	gateway *ws.Gateway,
	pagesHandler *pagesHandler.Handler,
	adminHandler *adminHandler.Handler,
	healthHandler *healthHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:        config,
		gateway:       gateway,
		pagesHandler:  pagesHandler,
		adminHandler:  adminHandler,
		healthHandler: healthHandler,
		logger:        logger,
		ratelimiter:   ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.loggerMiddleware)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Get("/", app.pagesHandler.Index)
	r.Get("/chat", app.pagesHandler.Chat)
	r.Get("/admin-login.html", app.pagesHandler.AdminLogin)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", app.adminHandler.Page)
		r.Post("/login", app.adminHandler.Login)
		r.Get("/logout", app.adminHandler.Logout)
	})

	r.Get("/ws", app.gateway.HandleWS)
	r.Get("/debug-data", app.adminHandler.DebugData)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	return otelhttp.NewHandler(r, "drift.http")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught",
			map[logging.ExtraKey]any{logging.Reason: s.String()})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started",
		map[logging.ExtraKey]any{logging.HostIp: srv.Addr})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped",
		map[logging.ExtraKey]any{logging.HostIp: srv.Addr})

	return nil
}
