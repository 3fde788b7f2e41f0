package approvalworkflow

import (
	"log/slog"
	"time"

	httpadapter "fundqueue/contexts/payout-approvals/approval-workflow/adapters/http"
	"fundqueue/contexts/payout-approvals/approval-workflow/adapters/memory"
	"fundqueue/contexts/payout-approvals/approval-workflow/application/commands"
	"fundqueue/contexts/payout-approvals/approval-workflow/application/queries"
	"fundqueue/contexts/payout-approvals/approval-workflow/application/workers"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Workflows     ports.WorkflowRepository
	Outbox        ports.OutboxRepository
	Notifications ports.NotificationDispatcher
	Audit         ports.AuditSink
	Retrier       ports.Retrier
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Observer      ports.Observer
	BatchSize     int
	MaxAttempts   int
	ClaimTTL      time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Workflows: commands.WorkflowUseCase{
				Workflows:   deps.Workflows,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Observer:    deps.Observer,
				Logger:      deps.Logger,
			},
			Query: queries.GetWorkflowUseCase{
				Workflows: deps.Workflows,
			},
			Logger: deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:        deps.Outbox,
			Notifications: deps.Notifications,
			Audit:         deps.Audit,
			Retrier:       deps.Retrier,
			Clock:         deps.Clock,
			Observer:      deps.Observer,
			BatchSize:     deps.BatchSize,
			MaxAttempts:   deps.MaxAttempts,
			ClaimTTL:      deps.ClaimTTL,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one in-process store. Notifications
// go to notifier, which may be nil to record them in memory.
func NewInMemoryModule(notifier ports.NotificationDispatcher, logger *slog.Logger) Module {
	store := memory.NewStore()
	if notifier == nil {
		notifier = &memory.Notifications{}
	}
	module := NewModule(Dependencies{
		Workflows:     store,
		Outbox:        store,
		Notifications: notifier,
		Audit:         store,
		Clock:         store,
		IDGenerator:   store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
