package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/classify"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/ledger"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/scheduler"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketStore := repository.NewTicketStore(pool)
	agentStore := repository.NewAgentStore(pool)
	categoryStore := repository.NewCategoryStore(pool)
	auditStore := repository.NewAuditStore(pool)

	metrics := observability.NewMetrics()

	index := classify.NewIndex()
	loader := classify.NewLoader(categoryStore, cfg.Corpus.Path, logger)
	if err := loader.Rebuild(ctx, index); err != nil {
		// Detection stays disabled until a successful rebuild; tickets
		// without a category remain unassigned, which is recoverable.
		logger.Warn("keyword corpus unavailable", zap.Error(err))
	}

	// Seeded on the first tick and refreshed every tick after; resolution
	// code paths decrement it in between.
	workloads := ledger.NewLedger()

	bus := events.NewBus()

	sinks := notify.Fanout{notify.NewRedisSink(redis.Client, cfg.Redis.ChannelPrefix)}
	if cfg.Kafka.Enabled() {
		kafkaSink := notify.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaSink.Close() //nolint:errcheck
		sinks = append(sinks, kafkaSink)
		logger.Info("kafka event stream enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	dispatcher := events.NewDispatcher(bus, auditStore, sinks, logger, metrics)
	sched := scheduler.NewScheduler(scheduler.Dependencies{
		Tickets: ticketStore,
		Agents:  agentStore,
		Index:   index,
		Ledger:  workloads,
		Bus:     bus,
		Logger:  logger,
		Metrics: metrics,
	}, cfg.Scheduler.TickInterval())

	pipeline := worker.StartPipeline(ctx, dispatcher, sched, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, bus, pg, redis),
		Pipeline: handlers.NewPipelineHandler(bus, metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	// Stop the pipeline before cancelling the shared context: the scheduler
	// must finish its in-flight tick and the dispatcher must drain the queue
	// before anything it depends on is torn down.
	pipeline.Stop()
	_ = app.Shutdown()
	cancel()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
