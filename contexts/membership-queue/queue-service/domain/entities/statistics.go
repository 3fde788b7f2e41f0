package entities

import "github.com/shopspring/decimal"

type RecalculationResult struct {
	UpdatedCount int
	Total        int
}

type PayoutStatistics struct {
	TotalRevenue    decimal.Decimal
	WinnerCount     int
	PerWinnerPayout decimal.Decimal
}

type QueueStatistics struct {
	TotalMembers             int
	ActiveMembers            int
	EligibleMembers          int
	TotalRevenue             decimal.Decimal
	PotentialWinners         int
	PotentialPayoutPerWinner decimal.Decimal
	// Degraded marks all-zero output produced after an upstream failure.
	Degraded bool
}

func ZeroQueueStatistics() QueueStatistics {
	return QueueStatistics{
		TotalRevenue:             decimal.Zero,
		PotentialPayoutPerWinner: decimal.Zero,
		Degraded:                 true,
	}
}
