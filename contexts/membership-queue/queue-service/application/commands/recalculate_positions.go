package commands

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

type RecalculateUseCase struct {
	Members  ports.MemberRepository
	Observer ports.Observer
	Logger   *slog.Logger
}

// RecalculatePositions compacts the queue to 1..N. Only moved members are
// written, so a second run without intervening writes updates nothing.
func (uc RecalculateUseCase) RecalculatePositions(ctx context.Context) (entities.RecalculationResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	updated := 0
	total, err := uc.Members.RewritePositions(ctx, func(current []entities.Member) (map[string]int, error) {
		ordered, changes := services.Reassign(current)
		if err := services.VerifySnapshot(ordered); err != nil {
			return nil, err
		}
		moves := make(map[string]int, len(changes))
		for _, change := range changes {
			moves[change.MemberID] = change.To
		}
		updated = len(moves)
		return moves, nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvariantViolation) {
			logger.Error("queue recalculation produced an invalid snapshot",
				"event", "queue_recalculate_invariant_violation",
				"module", "membership-queue/queue-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
		return entities.RecalculationResult{}, err
	}

	application.ResolveObserver(uc.Observer).QueueRecalculated(updated, total)
	logger.Info("queue positions recalculated",
		"event", "queue_recalculated",
		"module", "membership-queue/queue-service",
		"layer", "application",
		"updated_count", updated,
		"total", total,
	)
	return entities.RecalculationResult{UpdatedCount: updated, Total: total}, nil
}
