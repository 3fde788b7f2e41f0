package services

import (
	"testing"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculator() PayoutCalculator {
	return PayoutCalculator{Threshold: decimal.NewFromInt(100000)}
}

func TestComputeSplitsRevenueAcrossWinners(t *testing.T) {
	stats, err := calculator().Compute(decimal.NewFromInt(250000), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WinnerCount)
	assert.True(t, stats.PerWinnerPayout.Equal(decimal.NewFromInt(125000)), stats.PerWinnerPayout.String())
}

func TestComputeCapsWinnersAtEligibleCount(t *testing.T) {
	stats, err := calculator().Compute(decimal.NewFromInt(500000), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.WinnerCount)
	assert.Equal(t, "166666.67", stats.PerWinnerPayout.StringFixed(2))
}

func TestComputeWithNoEligibleMembers(t *testing.T) {
	stats, err := calculator().Compute(decimal.NewFromInt(250000), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.WinnerCount)
	assert.True(t, stats.PerWinnerPayout.IsZero())
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(250000)))
}

func TestComputeBelowThresholdDividesByOne(t *testing.T) {
	stats, err := calculator().Compute(decimal.NewFromInt(40000), 4)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.WinnerCount)
	assert.True(t, stats.PerWinnerPayout.Equal(decimal.NewFromInt(40000)))
}

func TestComputeDoesNotRoundQuotientUpToNextWinner(t *testing.T) {
	calc := PayoutCalculator{Threshold: decimal.NewFromInt(3)}
	stats, err := calc.Compute(decimal.RequireFromString("8.99999999999999999"), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WinnerCount)

	stats, err = calc.Compute(decimal.NewFromInt(9), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.WinnerCount)
}

func TestComputeRejectsNegativeRevenue(t *testing.T) {
	_, err := calculator().Compute(decimal.NewFromInt(-1), 2)
	assert.ErrorIs(t, err, domainerrors.ErrInvariantViolation)
}

func TestTotalRevenueCountsCompletedPaymentsOnly(t *testing.T) {
	total := calculator().TotalRevenue([]entities.Payment{
		{PaymentID: "p1", Amount: decimal.RequireFromString("100.10"), Status: entities.PaymentStatusCompleted},
		{PaymentID: "p2", Amount: decimal.RequireFromString("50.00"), Status: "refunded"},
		{PaymentID: "p3", Amount: decimal.RequireFromString("0.20"), Status: entities.PaymentStatusCompleted},
	})
	assert.Equal(t, "100.30", total.StringFixed(2))
}

func TestSelectWinnersIsDeterministic(t *testing.T) {
	members := []entities.Member{
		{MemberID: "d", QueuePosition: 4, InsertionSeq: 4, IsEligible: true},
		{MemberID: "b", QueuePosition: 2, InsertionSeq: 2, IsEligible: true, HasReceivedPayout: true},
		{MemberID: "a", QueuePosition: 1, InsertionSeq: 1, IsEligible: true},
		{MemberID: "c", QueuePosition: 3, InsertionSeq: 3, IsEligible: false},
	}
	winners := calculator().SelectWinners(members, 2)
	assert.Equal(t, []string{"a", "d"}, ids(winners))
	assert.Equal(t, ids(winners), ids(calculator().SelectWinners(members, 2)))
	assert.Empty(t, calculator().SelectWinners(members, 0))
}

func TestEligibilityExcludesPastWinners(t *testing.T) {
	evaluator := EligibilityEvaluator{}
	paid := entities.Member{MemberID: "a", IsEligible: true, HasReceivedPayout: true}
	assert.False(t, evaluator.IsEligible(paid))
	assert.False(t, evaluator.Normalize(paid).IsEligible)
	assert.Equal(t, 1, evaluator.CountEligible([]entities.Member{
		paid,
		{MemberID: "b", IsEligible: true},
		{MemberID: "c"},
	}))
}
