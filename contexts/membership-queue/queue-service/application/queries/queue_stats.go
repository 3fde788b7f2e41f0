package queries

import (
	"context"
	"errors"
	"log/slog"

	application "fundqueue/contexts/membership-queue/queue-service/application"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
	"fundqueue/contexts/membership-queue/queue-service/domain/services"
	"fundqueue/contexts/membership-queue/queue-service/ports"
)

type QueueStatsUseCase struct {
	Members    ports.MemberRepository
	Ledger     ports.PaymentLedger
	Calculator services.PayoutCalculator
	Logger     *slog.Logger
}

// QueueStats aggregates fund and queue figures. Upstream failures degrade to
// all-zero output; only an invariant violation is returned as an error.
func (uc QueueStatsUseCase) QueueStats(ctx context.Context) (entities.QueueStatistics, error) {
	logger := application.ResolveLogger(uc.Logger)
	members, err := uc.Members.ListMembers(ctx)
	if err != nil {
		uc.logDegraded(logger, "members", err)
		return entities.ZeroQueueStatistics(), nil
	}
	payments, err := uc.Ledger.ListCompletedPayments(ctx)
	if err != nil {
		uc.logDegraded(logger, "payments", err)
		return entities.ZeroQueueStatistics(), nil
	}

	eligible := uc.Calculator.Eligibility.CountEligible(members)
	payout, err := uc.Calculator.Compute(uc.Calculator.TotalRevenue(payments), eligible)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvariantViolation) {
			logger.Error("payout statistics violated an invariant",
				"event", "queue_stats_invariant_violation",
				"module", "membership-queue/queue-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
		return entities.QueueStatistics{}, err
	}

	active := 0
	for _, member := range members {
		if member.SubscriptionActive {
			active++
		}
	}
	return entities.QueueStatistics{
		TotalMembers:             len(members),
		ActiveMembers:            active,
		EligibleMembers:          eligible,
		TotalRevenue:             payout.TotalRevenue,
		PotentialWinners:         payout.WinnerCount,
		PotentialPayoutPerWinner: payout.PerWinnerPayout,
	}, nil
}

func (uc QueueStatsUseCase) logDegraded(logger *slog.Logger, source string, err error) {
	logger.Warn("queue statistics degraded to zero output",
		"event", "queue_stats_degraded",
		"module", "membership-queue/queue-service",
		"layer", "application",
		"source", source,
		"error", err.Error(),
	)
}
