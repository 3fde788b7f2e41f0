package queries

import (
	"context"
	"log/slog"

	application "fundqueue/contexts/membership-queue/queue-service/application"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	"fundqueue/contexts/membership-queue/queue-service/domain/services"
	"fundqueue/contexts/membership-queue/queue-service/ports"

	"golang.org/x/sync/errgroup"
)

const (
	placeholderName   = "Unknown member"
	placeholderStatus = "unknown"
)

type ListQueueUseCase struct {
	Members     ports.MemberRepository
	Profiles    ports.ProfileReader
	Eligibility services.EligibilityEvaluator
	// Concurrency bounds parallel profile lookups; <= 0 means 8.
	Concurrency int
	Logger      *slog.Logger
}

// ListQueue returns the queue in rank order with profile data attached. A
// failed profile lookup only degrades its own entry.
func (uc ListQueueUseCase) ListQueue(ctx context.Context) ([]entities.QueueEntry, error) {
	logger := application.ResolveLogger(uc.Logger)
	members, err := uc.Members.ListMembers(ctx)
	if err != nil {
		logger.Error("queue listing failed",
			"event", "queue_list_failed",
			"module", "membership-queue/queue-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}

	ordered := services.SortQueue(members)
	entries := make([]entities.QueueEntry, len(ordered))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.resolveConcurrency())
	for i, member := range ordered {
		member = uc.Eligibility.Normalize(member)
		group.Go(func() error {
			entries[i] = uc.enrich(groupCtx, logger, member)
			return nil
		})
	}
	_ = group.Wait()
	return entries, nil
}

func (uc ListQueueUseCase) enrich(ctx context.Context, logger *slog.Logger, member entities.Member) entities.QueueEntry {
	if uc.Profiles != nil {
		profile, err := uc.Profiles.GetProfile(ctx, member.MemberID)
		if err == nil {
			profile.MemberID = member.MemberID
			return entities.QueueEntry{Member: member, Profile: profile, Enriched: true}
		}
		logger.Warn("queue member enrichment failed; using placeholder profile",
			"event", "queue_member_enrichment_failed",
			"module", "membership-queue/queue-service",
			"layer", "application",
			"member_id", member.MemberID,
			"error", err.Error(),
		)
	}
	return entities.QueueEntry{
		Member: member,
		Profile: entities.Profile{
			MemberID: member.MemberID,
			Name:     placeholderName,
			Status:   placeholderStatus,
		},
	}
}

func (uc ListQueueUseCase) resolveConcurrency() int {
	if uc.Concurrency <= 0 {
		return 8
	}
	return uc.Concurrency
}
