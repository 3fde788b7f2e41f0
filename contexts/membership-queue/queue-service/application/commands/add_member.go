package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "fundqueue/contexts/membership-queue/queue-service/application"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
	"fundqueue/contexts/membership-queue/queue-service/domain/services"
	"fundqueue/contexts/membership-queue/queue-service/ports"
)

type AddMemberCommand struct {
	MemberID string
	State    entities.MemberState
}

// reservedMemberIDs are the static segments under /queue. A member with one
// of these ids could be created but never addressed by its own routes.
var reservedMemberIDs = map[string]struct{}{
	"recalculate": {},
	"stats":       {},
	"winners":     {},
}

// MemberUseCase owns the single-member write paths of the queue.
type MemberUseCase struct {
	Members     ports.MemberRepository
	Clock       ports.Clock
	Eligibility services.EligibilityEvaluator
	Logger      *slog.Logger
}

// AddMember inserts the member at the end of the queue. The real rank is
// assigned by the next recalculation.
func (uc MemberUseCase) AddMember(ctx context.Context, cmd AddMemberCommand) (entities.Member, error) {
	logger := application.ResolveLogger(uc.Logger)
	memberID := strings.TrimSpace(cmd.MemberID)
	_, reserved := reservedMemberIDs[memberID]
	if memberID == "" || reserved || cmd.State.TotalMonthsSubscribed < 0 || cmd.State.LifetimePaymentTotal.IsNegative() {
		logger.Warn("queue member add validation failed",
			"event", "queue_member_add_validation_failed",
			"module", "membership-queue/queue-service",
			"layer", "application",
			"member_id", memberID,
		)
		return entities.Member{}, domainerrors.ErrInvalidInput
	}

	now := uc.now()
	member := uc.Eligibility.Normalize(entities.Member{
		MemberID:              memberID,
		QueuePosition:         entities.EndOfQueuePosition,
		IsEligible:            cmd.State.IsEligible,
		SubscriptionActive:    cmd.State.SubscriptionActive,
		TotalMonthsSubscribed: cmd.State.TotalMonthsSubscribed,
		LastPaymentDate:       utcPointer(cmd.State.LastPaymentDate),
		LifetimePaymentTotal:  cmd.State.LifetimePaymentTotal,
		HasReceivedPayout:     cmd.State.HasReceivedPayout,
		Notes:                 cmd.State.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	stored, err := uc.Members.CreateMember(ctx, member)
	if err != nil {
		logger.Warn("queue member add failed",
			"event", "queue_member_add_failed",
			"module", "membership-queue/queue-service",
			"layer", "application",
			"member_id", memberID,
			"error", err.Error(),
		)
		return entities.Member{}, err
	}
	logger.Info("queue member added",
		"event", "queue_member_added",
		"module", "membership-queue/queue-service",
		"layer", "application",
		"member_id", stored.MemberID,
		"insertion_seq", stored.InsertionSeq,
	)
	return stored, nil
}

func (uc MemberUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func utcPointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}
