package queries

import (
	"context"
	"errors"
	"testing"

	"fundqueue/contexts/membership-queue/queue-service/adapters/memory"
	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
	"fundqueue/contexts/membership-queue/queue-service/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *memory.Store {
	store := memory.NewStore([]entities.Member{
		{MemberID: "m-3", QueuePosition: 3, IsEligible: true, SubscriptionActive: true},
		{MemberID: "m-1", QueuePosition: 1, IsEligible: true, SubscriptionActive: true},
		{MemberID: "m-2", QueuePosition: 2, IsEligible: true, HasReceivedPayout: true},
		{MemberID: "m-4", QueuePosition: 4, IsEligible: true, SubscriptionActive: true},
		{MemberID: "m-5", QueuePosition: 5, IsEligible: true},
		{MemberID: "m-6", QueuePosition: 6, IsEligible: true},
	})
	store.SetProfile(entities.Profile{MemberID: "m-1", Name: "Ada", Email: "ada@fund.example", Status: "active"})
	store.SetProfile(entities.Profile{MemberID: "m-3", Name: "Cy", Email: "cy@fund.example", Status: "active"})
	store.AddPayment(entities.Payment{PaymentID: "p-1", Amount: decimal.NewFromInt(200000), Status: entities.PaymentStatusCompleted})
	store.AddPayment(entities.Payment{PaymentID: "p-2", Amount: decimal.NewFromInt(50000), Status: entities.PaymentStatusCompleted})
	store.AddPayment(entities.Payment{PaymentID: "p-3", Amount: decimal.NewFromInt(90000), Status: "failed"})
	return store
}

func calculator() services.PayoutCalculator {
	return services.PayoutCalculator{Threshold: decimal.NewFromInt(100000)}
}

func TestListQueueEnrichesInRankOrder(t *testing.T) {
	store := seededStore()
	store.SetProfileError("m-3", errors.New("profile service timeout"))
	useCase := ListQueueUseCase{Members: store, Profiles: store, Concurrency: 2}

	entries, err := useCase.ListQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 6)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Member.QueuePosition)
	}

	assert.True(t, entries[0].Enriched)
	assert.Equal(t, "Ada", entries[0].Profile.Name)
	assert.False(t, entries[1].Member.IsEligible, "past winner reported ineligible")

	assert.False(t, entries[2].Enriched)
	assert.Equal(t, "Unknown member", entries[2].Profile.Name)
	assert.Equal(t, "unknown", entries[2].Profile.Status)
	assert.Equal(t, "m-3", entries[2].Profile.MemberID)
}

func TestListQueueFailsWhenMembersUnavailable(t *testing.T) {
	store := seededStore()
	store.SetMembersError(errors.New("db down"))
	_, err := ListQueueUseCase{Members: store, Profiles: store}.ListQueue(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrDataUnavailable)
}

func TestQueueStats(t *testing.T) {
	store := seededStore()
	stats, err := QueueStatsUseCase{Members: store, Ledger: store, Calculator: calculator()}.QueueStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalMembers)
	assert.Equal(t, 3, stats.ActiveMembers)
	assert.Equal(t, 5, stats.EligibleMembers)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, 2, stats.PotentialWinners)
	assert.True(t, stats.PotentialPayoutPerWinner.Equal(decimal.NewFromInt(125000)))
	assert.False(t, stats.Degraded)
}

func TestQueueStatsDegradesToZero(t *testing.T) {
	store := seededStore()
	store.SetLedgerError(errors.New("ledger offline"))
	stats, err := QueueStatsUseCase{Members: store, Ledger: store, Calculator: calculator()}.QueueStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Degraded)
	assert.Equal(t, 0, stats.TotalMembers)
	assert.True(t, stats.TotalRevenue.IsZero())

	store.SetLedgerError(nil)
	store.SetMembersError(errors.New("db down"))
	stats, err = QueueStatsUseCase{Members: store, Ledger: store, Calculator: calculator()}.QueueStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Degraded)
}

func TestWinnerCandidates(t *testing.T) {
	store := seededStore()
	useCase := WinnerCandidatesUseCase{Members: store, Ledger: store, Calculator: calculator()}

	result, err := useCase.WinnerCandidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Payout.WinnerCount)
	require.Len(t, result.Winners, 2)
	assert.Equal(t, "m-1", result.Winners[0].MemberID)
	assert.Equal(t, "m-3", result.Winners[1].MemberID)

	store.SetLedgerError(errors.New("ledger offline"))
	_, err = useCase.WinnerCandidates(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrDataUnavailable)
}
