package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	queueservice "fundqueue/contexts/membership-queue/queue-service"
	queuememory "fundqueue/contexts/membership-queue/queue-service/adapters/memory"
	queuepostgres "fundqueue/contexts/membership-queue/queue-service/adapters/postgres"
	approvalworkflow "fundqueue/contexts/payout-approvals/approval-workflow"
	approvalevents "fundqueue/contexts/payout-approvals/approval-workflow/adapters/events"
	approvalmemory "fundqueue/contexts/payout-approvals/approval-workflow/adapters/memory"
	approvalpostgres "fundqueue/contexts/payout-approvals/approval-workflow/adapters/postgres"
	approvalcommands "fundqueue/contexts/payout-approvals/approval-workflow/application/commands"
	"fundqueue/contexts/payout-approvals/approval-workflow/application/workers"
	"fundqueue/internal/platform/config"
	"fundqueue/internal/platform/db"
	"fundqueue/internal/platform/httpserver"
	"fundqueue/internal/platform/messaging"
	"fundqueue/internal/platform/metrics"
	"fundqueue/internal/shared/events"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	shutdownTimeout      = 10 * time.Second
	notificationConsumer = "payout-notification-log-cg"
)

type APIApp struct {
	server       *httpserver.Server
	relay        workers.OutboxRelay
	relayEnabled bool
	bus          *messaging.Bus
	postgres     *db.Postgres
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	relay        workers.OutboxRelay
	bus          *messaging.Bus
	postgres     *db.Postgres
	pollInterval time.Duration
	logger       *slog.Logger
}

type components struct {
	postgres  *db.Postgres
	bus       *messaging.Bus
	metrics   *metrics.Registry
	queue     queueservice.Module
	approvals approvalworkflow.Module
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	parts, err := build(cfg, logger)
	if err != nil {
		return nil, err
	}
	server := httpserver.New(parts.queue, parts.approvals, parts.metrics, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:       server,
		relay:        parts.approvals.Relay,
		relayEnabled: cfg.OutboxRelayEnabled,
		bus:          parts.bus,
		postgres:     parts.postgres,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

// BuildWorker wires only the outbox relay. The outbox must be shared with
// the API process, so the worker needs the postgres store.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if cfg.StorageDriver != config.StoragePostgres {
		return nil, errors.New("worker requires STORAGE_DRIVER=postgres")
	}

	parts, err := build(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		relay:        parts.approvals.Relay,
		bus:          parts.bus,
		postgres:     parts.postgres,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func build(cfg config.Config, logger *slog.Logger) (components, error) {
	parts := components{
		bus: messaging.NewBus(cfg.KafkaBrokers, logger),
	}
	if cfg.MetricsEnabled {
		parts.metrics = metrics.New("fundqueue")
	}

	queueDeps := queueservice.Dependencies{
		PayoutThreshold:   cfg.PayoutThreshold,
		EnrichConcurrency: cfg.EnrichConcurrency,
		Observer:          parts.metrics,
		Logger:            logger,
	}
	approvalDeps := approvalworkflow.Dependencies{
		Notifications: approvalevents.BusDispatcher{Bus: parts.bus},
		Retrier: approvalevents.BackoffRetrier{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			MaxRetries:      3,
		},
		Observer:    parts.metrics,
		BatchSize:   cfg.OutboxBatchSize,
		MaxAttempts: cfg.OutboxMaxAttempts,
		ClaimTTL:    cfg.OutboxClaimTTL,
		Logger:      logger,
	}

	var queueStore *queuememory.Store
	var approvalStore *approvalmemory.Store
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pg, err := db.Connect(cfg.PostgresDSN, db.Options{})
		if err != nil {
			return components{}, err
		}
		if cfg.AutoMigrate {
			if err := pg.Migrate(context.Background(), queuepostgres.AutoMigrate, approvalpostgres.AutoMigrate); err != nil {
				_ = pg.Close()
				return components{}, err
			}
		}
		parts.postgres = pg

		queueRepo := queuepostgres.NewRepository(pg.DB, logger)
		queueDeps.Members = queueRepo
		queueDeps.Profiles = queueRepo
		queueDeps.Ledger = queueRepo
		queueDeps.Clock = queuepostgres.SystemClock{}

		approvalRepo := approvalpostgres.NewRepository(pg.DB, logger)
		approvalDeps.Workflows = approvalRepo
		approvalDeps.Outbox = approvalRepo
		approvalDeps.Audit = approvalRepo
		approvalDeps.Clock = approvalpostgres.SystemClock{}
		approvalDeps.IDGenerator = approvalpostgres.UUIDGenerator{}
	default:
		queueStore = queuememory.NewStore(nil)
		queueDeps.Members = queueStore
		queueDeps.Profiles = queueStore
		queueDeps.Ledger = queueStore
		queueDeps.Clock = queueStore

		approvalStore = approvalmemory.NewStore()
		approvalDeps.Workflows = approvalStore
		approvalDeps.Outbox = approvalStore
		approvalDeps.Audit = approvalStore
		approvalDeps.Clock = approvalStore
		approvalDeps.IDGenerator = approvalStore
	}

	parts.queue = queueservice.NewModule(queueDeps)
	parts.queue.Store = queueStore
	parts.approvals = approvalworkflow.NewModule(approvalDeps)
	parts.approvals.Store = approvalStore

	logger.Info("bootstrap components built",
		"event", "bootstrap_components_built",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"storage_driver", cfg.StorageDriver,
		"brokers", strings.Join(parts.bus.Brokers(), ","),
		"metrics_enabled", cfg.MetricsEnabled,
	)
	return parts, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully. The approval outbox is relayed in process unless
// OUTBOX_RELAY_ENABLED is off. Rows are claimed before delivery, so an API
// relay running next to a worker does not push a row twice.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", a.pollInterval.String(),
		"relay_enabled", a.relayEnabled,
	)
	subscribeNotificationLog(ctx, a.bus, a.logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	if a.relayEnabled {
		group.Go(func() error {
			return a.relay.Run(groupCtx, a.pollInterval)
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)
	subscribeNotificationLog(ctx, w.bus, w.logger)
	return w.relay.Run(ctx, w.pollInterval)
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// subscribeNotificationLog attaches the default notification consumer. It
// records every terminal workflow notification in the process log.
func subscribeNotificationLog(ctx context.Context, bus *messaging.Bus, logger *slog.Logger) {
	handler := func(_ context.Context, event events.Envelope) error {
		logger.Info("payout workflow notification received",
			"event", "payout_notification_received",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"workflow_id", event.EntityID,
		)
		return nil
	}
	for _, topic := range []string{approvalcommands.EventPayoutApproved, approvalcommands.EventPayoutRejected} {
		bus.Subscribe(ctx, topic, notificationConsumer, handler)
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
