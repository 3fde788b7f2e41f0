package queueservice

import (
	"log/slog"

	httpadapter "fundqueue/contexts/membership-queue/queue-service/adapters/http"
	"fundqueue/contexts/membership-queue/queue-service/adapters/memory"
	"fundqueue/contexts/membership-queue/queue-service/application/commands"
	"fundqueue/contexts/membership-queue/queue-service/application/queries"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	"fundqueue/contexts/membership-queue/queue-service/domain/services"
	"fundqueue/contexts/membership-queue/queue-service/ports"

	"github.com/shopspring/decimal"
)

// DefaultPayoutThreshold is the fund size that funds one winner.
var DefaultPayoutThreshold = decimal.NewFromInt(100000)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Members           ports.MemberRepository
	Profiles          ports.ProfileReader
	Ledger            ports.PaymentLedger
	Clock             ports.Clock
	PayoutThreshold   decimal.Decimal
	EnrichConcurrency int
	Observer          ports.Observer
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	threshold := deps.PayoutThreshold
	if !threshold.IsPositive() {
		threshold = DefaultPayoutThreshold
	}
	eligibility := services.EligibilityEvaluator{}
	calculator := services.PayoutCalculator{
		Threshold:   threshold,
		Eligibility: eligibility,
	}
	return Module{
		Handler: httpadapter.Handler{
			Members: commands.MemberUseCase{
				Members:     deps.Members,
				Clock:       deps.Clock,
				Eligibility: eligibility,
				Logger:      deps.Logger,
			},
			Recalculate: commands.RecalculateUseCase{
				Members:  deps.Members,
				Observer: deps.Observer,
				Logger:   deps.Logger,
			},
			Queue: queries.ListQueueUseCase{
				Members:     deps.Members,
				Profiles:    deps.Profiles,
				Eligibility: eligibility,
				Concurrency: deps.EnrichConcurrency,
				Logger:      deps.Logger,
			},
			Stats: queries.QueueStatsUseCase{
				Members:    deps.Members,
				Ledger:     deps.Ledger,
				Calculator: calculator,
				Logger:     deps.Logger,
			},
			Winners: queries.WinnerCandidatesUseCase{
				Members:    deps.Members,
				Ledger:     deps.Ledger,
				Calculator: calculator,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Member, threshold decimal.Decimal, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Members:         store,
		Profiles:        store,
		Ledger:          store,
		Clock:           store,
		PayoutThreshold: threshold,
		Logger:          logger,
	})
	module.Store = store
	return module
}
