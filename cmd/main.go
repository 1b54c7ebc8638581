package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hilthontt/drift/internal/core"
	"github.com/hilthontt/drift/internal/infrastructure/configs"
	"github.com/hilthontt/drift/internal/infrastructure/events"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
	"github.com/hilthontt/drift/internal/infrastructure/messaging"
	"github.com/hilthontt/drift/internal/infrastructure/metrics"
	"github.com/hilthontt/drift/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/drift/internal/infrastructure/tracing"
	"github.com/hilthontt/drift/internal/infrastructure/ws"
	"github.com/hilthontt/drift/internal/presentation/api"
	"github.com/hilthontt/drift/internal/presentation/handler/admin"
	"github.com/hilthontt/drift/internal/presentation/handler/health"
	"github.com/hilthontt/drift/internal/presentation/handler/pages"
)

const (
	serviceName = "drift-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	collectors := metrics.New(prometheus.DefaultRegisterer)

	audit := core.AuditSink(core.NopAuditSink{})
	if cfg.AMQP.Enabled {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.AMQP.URI)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitmq.Close()

		logger.Info(logging.RabbitMQ, logging.Startup, "RabbitMQ connection established", nil)

		audit = events.NewPairingPublisher(rabbitmq, logger)
	}

	gateway := ws.NewGateway(logger)

	engine := core.NewEngine(core.Config{
		Emitter:         gateway,
		Audit:           audit,
		Metrics:         collectors,
		Logger:          logger,
		AdminSecret:     cfg.Admin.Secret,
		PublishInterval: cfg.Broadcast.Interval,
	})
	gateway.Attach(engine)

	go engine.Run(ctx)

	pagesHandler := pages.NewHandler()
	adminHandler := admin.NewHandler(cfg.Admin, pagesHandler, engine, logger)
	healthHandler := health.NewHandler()

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
	})

	app := api.NewApplication(cfg, gateway, pagesHandler, adminHandler, healthHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Shutdown, "server exited", map[logging.ExtraKey]any{logging.ErrorMessage: err.Error()})
	}
}
