package commands

import (
	"context"
	"strings"

	application "fundqueue/contexts/membership-queue/queue-service/application"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
)

func (uc MemberUseCase) RemoveMember(ctx context.Context, memberID string) error {
	logger := application.ResolveLogger(uc.Logger)
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := uc.Members.DeleteMember(ctx, memberID); err != nil {
		return err
	}
	logger.Info("queue member removed",
		"event", "queue_member_removed",
		"module", "membership-queue/queue-service",
		"layer", "application",
		"member_id", memberID,
	)
	return nil
}
