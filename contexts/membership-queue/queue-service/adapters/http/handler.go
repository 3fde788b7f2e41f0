package httpadapter

import (
	"context"
	"log/slog"

	application "fundqueue/contexts/membership-queue/queue-service/application"
	"fundqueue/contexts/membership-queue/queue-service/application/commands"
	"fundqueue/contexts/membership-queue/queue-service/application/queries"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	httptransport "fundqueue/contexts/membership-queue/queue-service/transport/http"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Members     commands.MemberUseCase
	Recalculate commands.RecalculateUseCase
	Queue       queries.ListQueueUseCase
	Stats       queries.QueueStatsUseCase
	Winners     queries.WinnerCandidatesUseCase
	Logger      *slog.Logger
}

// ListQueueHandler godoc
// @Summary List the queue
// @Description Returns members in queue order enriched with profile data.
// @Tags membership-queue
// @Accept json
// @Produce json
// @Success 200 {object} httptransport.ListQueueResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /queue [get]
func (h Handler) ListQueueHandler(ctx context.Context) (httptransport.ListQueueResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("list queue request received",
		"event", "http_list_queue_received",
		"module", "membership-queue/queue-service",
		"layer", "transport",
	)

	entries, err := h.Queue.ListQueue(ctx)
	if err != nil {
		logger.Error("list queue request failed",
			"event", "http_list_queue_failed",
			"module", "membership-queue/queue-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.ListQueueResponse{}, err
	}
	items := make([]httptransport.QueueEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.QueueEntryResponse{
			MemberResponse: mapMember(entry.Member),
			Name:           entry.Profile.Name,
			Email:          entry.Profile.Email,
			ProfileStatus:  entry.Profile.Status,
			JoinDate:       entry.Profile.JoinDate,
			Enriched:       entry.Enriched,
		})
	}
	return httptransport.ListQueueResponse{Items: items, Total: len(items)}, nil
}

// AddMemberHandler godoc
// @Summary Add a queue member
// @Description Creates a member at the end of the queue.
// @Tags membership-queue
// @Accept json
// @Produce json
// @Param member_id path string true "Member id"
// @Param request body httptransport.AddMemberRequest true "Member state"
// @Success 201 {object} httptransport.MemberResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /queue/{member_id} [post]
func (h Handler) AddMemberHandler(
	ctx context.Context,
	memberID string,
	req httptransport.AddMemberRequest,
) (httptransport.MemberResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("add member request received",
		"event", "http_add_member_received",
		"module", "membership-queue/queue-service",
		"layer", "transport",
		"member_id", memberID,
	)

	total := decimal.Zero
	if req.LifetimePaymentTotal != nil {
		total = *req.LifetimePaymentTotal
	}
	member, err := h.Members.AddMember(ctx, commands.AddMemberCommand{
		MemberID: memberID,
		State: entities.MemberState{
			IsEligible:            req.IsEligible,
			SubscriptionActive:    req.SubscriptionActive,
			TotalMonthsSubscribed: req.TotalMonthsSubscribed,
			LastPaymentDate:       req.LastPaymentDate,
			LifetimePaymentTotal:  total,
			HasReceivedPayout:     req.HasReceivedPayout,
			Notes:                 req.Notes,
		},
	})
	if err != nil {
		logger.Error("add member request failed",
			"event", "http_add_member_failed",
			"module", "membership-queue/queue-service",
			"layer", "transport",
			"member_id", memberID,
			"error", err.Error(),
		)
		return httptransport.MemberResponse{}, err
	}
	return mapMember(member), nil
}

// UpdateMemberHandler godoc
// @Summary Update a queue member
// @Description Applies a partial update restricted to writable member fields.
// @Tags membership-queue
// @Accept json
// @Produce json
// @Param member_id path string true "Member id"
// @Param request body httptransport.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} httptransport.MemberResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /queue/{member_id} [put]
func (h Handler) UpdateMemberHandler(
	ctx context.Context,
	memberID string,
	req httptransport.UpdateMemberRequest,
) (httptransport.MemberResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("update member request received",
		"event", "http_update_member_received",
		"module", "membership-queue/queue-service",
		"layer", "transport",
		"member_id", memberID,
	)

	member, err := h.Members.UpdateMember(ctx, memberID, entities.MemberUpdate{
		QueuePosition:         req.QueuePosition,
		SubscriptionActive:    req.SubscriptionActive,
		IsEligible:            req.IsEligible,
		TotalMonthsSubscribed: req.TotalMonthsSubscribed,
		LastPaymentDate:       req.LastPaymentDate,
		LifetimePaymentTotal:  req.LifetimePaymentTotal,
		HasReceivedPayout:     req.HasReceivedPayout,
		Notes:                 req.Notes,
	})
	if err != nil {
		logger.Error("update member request failed",
			"event", "http_update_member_failed",
			"module", "membership-queue/queue-service",
			"layer", "transport",
			"member_id", memberID,
			"error", err.Error(),
		)
		return httptransport.MemberResponse{}, err
	}
	return mapMember(member), nil
}

// RemoveMemberHandler godoc
// @Summary Remove a queue member
// @Description Deletes the member. Positions are compacted by the next recalculation.
// @Tags membership-queue
// @Accept json
// @Produce json
// @Param member_id path string true "Member id"
// @Success 204 "No Content"
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /queue/{member_id} [delete]
func (h Handler) RemoveMemberHandler(ctx context.Context, memberID string) error {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("remove member request received",
		"event", "http_remove_member_received",
		"module", "membership-queue/queue-service",
		"layer", "transport",
		"member_id", memberID,
	)

	if err := h.Members.RemoveMember(ctx, memberID); err != nil {
		logger.Error("remove member request failed",
			"event", "http_remove_member_failed",
			"module", "membership-queue/queue-service",
			"layer", "transport",
			"member_id", memberID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// RecalculateHandler godoc
// @Summary Recalculate queue positions
// @Description Ranks every member and rewrites the positions that changed.
// @Tags membership-queue
// @Accept json
// @Produce json
// @Success 200 {object} httptransport.RecalculateResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /queue/recalculate [post]
func (h Handler) RecalculateHandler(ctx context.Context) (httptransport.RecalculateResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("recalculate queue request received",
		"event", "http_recalculate_queue_received",
		"module", "membership-queue/queue-service",
		"layer", "transport",
	)

	result, err := h.Recalculate.RecalculatePositions(ctx)
	if err != nil {
		logger.Error("recalculate queue request failed",
			"event", "http_recalculate_queue_failed",
			"module", "membership-queue/queue-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.RecalculateResponse{}, err
	}
	return httptransport.RecalculateResponse{
		UpdatedCount: result.UpdatedCount,
		Total:        result.Total,
	}, nil
}

// QueueStatsHandler godoc
// @Summary Queue statistics
// @Description Returns member counts and the potential payout. Degrades to zeros when the store is unreachable.
// @Tags membership-queue
// @Accept json
// @Produce json
// @Success 200 {object} httptransport.QueueStatsResponse
// @Router /queue/stats [get]
func (h Handler) QueueStatsHandler(ctx context.Context) (httptransport.QueueStatsResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("queue stats request received",
		"event", "http_queue_stats_received",
		"module", "membership-queue/queue-service",
		"layer", "transport",
	)

	stats, err := h.Stats.QueueStats(ctx)
	if err != nil {
		logger.Error("queue stats request failed",
			"event", "http_queue_stats_failed",
			"module", "membership-queue/queue-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.QueueStatsResponse{}, err
	}
	return httptransport.QueueStatsResponse{
		TotalMembers:             stats.TotalMembers,
		ActiveMembers:            stats.ActiveMembers,
		EligibleMembers:          stats.EligibleMembers,
		TotalRevenue:             stats.TotalRevenue,
		PotentialWinners:         stats.PotentialWinners,
		PotentialPayoutPerWinner: stats.PotentialPayoutPerWinner,
		Degraded:                 stats.Degraded,
	}, nil
}

// WinnersHandler godoc
// @Summary Winner candidates
// @Description Returns the members that would be paid in the next payout.
// @Tags membership-queue
// @Accept json
// @Produce json
// @Success 200 {object} httptransport.WinnersResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /queue/winners [get]
func (h Handler) WinnersHandler(ctx context.Context) (httptransport.WinnersResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("winner candidates request received",
		"event", "http_winner_candidates_received",
		"module", "membership-queue/queue-service",
		"layer", "transport",
	)

	result, err := h.Winners.WinnerCandidates(ctx)
	if err != nil {
		logger.Error("winner candidates request failed",
			"event", "http_winner_candidates_failed",
			"module", "membership-queue/queue-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.WinnersResponse{}, err
	}
	items := make([]httptransport.WinnerItem, 0, len(result.Winners))
	for _, member := range result.Winners {
		items = append(items, httptransport.WinnerItem{
			MemberID:      member.MemberID,
			QueuePosition: member.QueuePosition,
		})
	}
	return httptransport.WinnersResponse{
		TotalRevenue:    result.Payout.TotalRevenue,
		WinnerCount:     result.Payout.WinnerCount,
		PerWinnerPayout: result.Payout.PerWinnerPayout,
		Items:           items,
	}, nil
}

func mapMember(member entities.Member) httptransport.MemberResponse {
	return httptransport.MemberResponse{
		MemberID:              member.MemberID,
		QueuePosition:         member.QueuePosition,
		IsEligible:            member.IsEligible,
		SubscriptionActive:    member.SubscriptionActive,
		TotalMonthsSubscribed: member.TotalMonthsSubscribed,
		LastPaymentDate:       member.LastPaymentDate,
		LifetimePaymentTotal:  member.LifetimePaymentTotal,
		HasReceivedPayout:     member.HasReceivedPayout,
		Notes:                 member.Notes,
	}
}
