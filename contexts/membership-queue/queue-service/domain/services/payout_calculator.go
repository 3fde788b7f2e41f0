package services

import (
	"fmt"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"

	"github.com/shopspring/decimal"
)

type PayoutCalculator struct {
	Threshold   decimal.Decimal
	Eligibility EligibilityEvaluator
}

// TotalRevenue sums completed payments only.
func (PayoutCalculator) TotalRevenue(payments []entities.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range payments {
		if payment.Status != entities.PaymentStatusCompleted {
			continue
		}
		total = total.Add(payment.Amount)
	}
	return total
}

// Compute derives the winner count and per-winner payout. Winner count is
// floor(revenue/threshold) capped at the eligible population; the per-winner
// amount divides by max(winnerCount, 1). No eligible members means no payout.
func (c PayoutCalculator) Compute(totalRevenue decimal.Decimal, eligibleCount int) (entities.PayoutStatistics, error) {
	if totalRevenue.IsNegative() {
		return entities.PayoutStatistics{}, fmt.Errorf("%w: total revenue %s is negative",
			domainerrors.ErrInvariantViolation, totalRevenue.String())
	}
	stats := entities.PayoutStatistics{
		TotalRevenue:    totalRevenue,
		PerWinnerPayout: decimal.Zero,
	}
	if eligibleCount <= 0 {
		return stats, nil
	}

	winners := 0
	if c.Threshold.IsPositive() {
		quotient, _ := totalRevenue.QuoRem(c.Threshold, 0)
		winners = int(quotient.IntPart())
	}
	if winners > eligibleCount {
		winners = eligibleCount
	}
	stats.WinnerCount = winners
	stats.PerWinnerPayout = totalRevenue.Div(decimal.NewFromInt(int64(max(winners, 1)))).Round(2)
	return stats, nil
}

// SelectWinners returns the first winnerCount eligible, unpaid members by
// queue order.
func (c PayoutCalculator) SelectWinners(members []entities.Member, winnerCount int) []entities.Member {
	if winnerCount <= 0 {
		return []entities.Member{}
	}
	winners := make([]entities.Member, 0, winnerCount)
	for _, member := range SortQueue(members) {
		if !c.Eligibility.IsEligible(member) {
			continue
		}
		winners = append(winners, member)
		if len(winners) == winnerCount {
			break
		}
	}
	return winners
}
