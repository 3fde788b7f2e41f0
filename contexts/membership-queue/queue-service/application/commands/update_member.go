package commands

import (
	"context"
	"strings"

	application "fundqueue/contexts/membership-queue/queue-service/application"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
)

// UpdateMember merges the allow-listed fields of update into the stored
// member.
func (uc MemberUseCase) UpdateMember(ctx context.Context, memberID string, update entities.MemberUpdate) (entities.Member, error) {
	logger := application.ResolveLogger(uc.Logger)
	memberID = strings.TrimSpace(memberID)
	if memberID == "" || !isValidUpdate(update) {
		logger.Warn("queue member update validation failed",
			"event", "queue_member_update_validation_failed",
			"module", "membership-queue/queue-service",
			"layer", "application",
			"member_id", memberID,
		)
		return entities.Member{}, domainerrors.ErrInvalidInput
	}

	now := uc.now()
	updated, err := uc.Members.UpdateMember(ctx, memberID, func(current entities.Member) (entities.Member, error) {
		next := uc.Eligibility.Normalize(update.Apply(current))
		next.UpdatedAt = now
		return next, nil
	})
	if err != nil {
		return entities.Member{}, err
	}
	logger.Info("queue member updated",
		"event", "queue_member_updated",
		"module", "membership-queue/queue-service",
		"layer", "application",
		"member_id", updated.MemberID,
		"queue_position", updated.QueuePosition,
		"is_eligible", updated.IsEligible,
	)
	return updated, nil
}

func isValidUpdate(update entities.MemberUpdate) bool {
	if update.IsEmpty() {
		return false
	}
	if update.QueuePosition != nil && *update.QueuePosition < 1 {
		return false
	}
	if update.TotalMonthsSubscribed != nil && *update.TotalMonthsSubscribed < 0 {
		return false
	}
	if update.LifetimePaymentTotal != nil && update.LifetimePaymentTotal.IsNegative() {
		return false
	}
	return true
}
