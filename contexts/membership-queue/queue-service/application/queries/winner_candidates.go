package queries

import (
	"context"
	"log/slog"

	application "fundqueue/contexts/membership-queue/queue-service/application"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	"fundqueue/contexts/membership-queue/queue-service/domain/services"
	"fundqueue/contexts/membership-queue/queue-service/ports"
)

type WinnerCandidates struct {
	Payout  entities.PayoutStatistics
	Winners []entities.Member
}

type WinnerCandidatesUseCase struct {
	Members    ports.MemberRepository
	Ledger     ports.PaymentLedger
	Calculator services.PayoutCalculator
	Logger     *slog.Logger
}

// WinnerCandidates selects the members due a payout for the current period.
// Unlike the statistics read it fails instead of degrading: an empty winner
// list must never be confused with "store unreachable".
func (uc WinnerCandidatesUseCase) WinnerCandidates(ctx context.Context) (WinnerCandidates, error) {
	logger := application.ResolveLogger(uc.Logger)
	members, err := uc.Members.ListMembers(ctx)
	if err != nil {
		return WinnerCandidates{}, err
	}
	payments, err := uc.Ledger.ListCompletedPayments(ctx)
	if err != nil {
		return WinnerCandidates{}, err
	}
	payout, err := uc.Calculator.Compute(
		uc.Calculator.TotalRevenue(payments),
		uc.Calculator.Eligibility.CountEligible(members),
	)
	if err != nil {
		return WinnerCandidates{}, err
	}
	winners := uc.Calculator.SelectWinners(members, payout.WinnerCount)
	logger.Info("winner candidates selected",
		"event", "queue_winner_candidates_selected",
		"module", "membership-queue/queue-service",
		"layer", "application",
		"winner_count", len(winners),
		"per_winner_payout", payout.PerWinnerPayout.String(),
	)
	return WinnerCandidates{Payout: payout, Winners: winners}, nil
}
