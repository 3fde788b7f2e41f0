package ports

import (
	"context"
	"time"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
)

// PositionPlan receives the locked queue and returns the new position of every
// member that has to move.
type PositionPlan func(current []entities.Member) (map[string]int, error)

// MemberMutation receives the locked member row and returns its new state.
type MemberMutation func(current entities.Member) (entities.Member, error)

type MemberRepository interface {
	ListMembers(ctx context.Context) ([]entities.Member, error)
	GetMember(ctx context.Context, memberID string) (entities.Member, error)
	// CreateMember assigns InsertionSeq and returns the stored row.
	CreateMember(ctx context.Context, member entities.Member) (entities.Member, error)
	UpdateMember(ctx context.Context, memberID string, mutate MemberMutation) (entities.Member, error)
	DeleteMember(ctx context.Context, memberID string) error
	// RewritePositions runs plan and persists its result under a lock scoped
	// to the whole queue. It returns the number of members in the queue.
	RewritePositions(ctx context.Context, plan PositionPlan) (int, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, memberID string) (entities.Profile, error)
}

type PaymentLedger interface {
	ListCompletedPayments(ctx context.Context) ([]entities.Payment, error)
}

type Clock interface {
	Now() time.Time
}

// Observer receives queue counters. Implementations must be safe for
// concurrent use.
type Observer interface {
	QueueRecalculated(updated int, total int)
}
