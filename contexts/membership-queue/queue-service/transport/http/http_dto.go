package http

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AddMemberRequest struct {
	IsEligible            bool             `json:"is_eligible"`
	SubscriptionActive    bool             `json:"subscription_active"`
	TotalMonthsSubscribed int              `json:"total_months_subscribed"`
	LastPaymentDate       *time.Time       `json:"last_payment_date,omitempty"`
	LifetimePaymentTotal  *decimal.Decimal `json:"lifetime_payment_total,omitempty"`
	HasReceivedPayout     bool             `json:"has_received_payout"`
	Notes                 string           `json:"notes,omitempty"`
}

// UpdateMemberRequest is the complete set of writable member fields. The
// server decodes it with unknown fields disallowed.
type UpdateMemberRequest struct {
	QueuePosition         *int             `json:"queue_position,omitempty"`
	SubscriptionActive    *bool            `json:"subscription_active,omitempty"`
	IsEligible            *bool            `json:"is_eligible,omitempty"`
	TotalMonthsSubscribed *int             `json:"total_months_subscribed,omitempty"`
	LastPaymentDate       *time.Time       `json:"last_payment_date,omitempty"`
	LifetimePaymentTotal  *decimal.Decimal `json:"lifetime_payment_total,omitempty"`
	HasReceivedPayout     *bool            `json:"has_received_payout,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
}

type MemberResponse struct {
	MemberID              string          `json:"member_id"`
	QueuePosition         int             `json:"queue_position"`
	IsEligible            bool            `json:"is_eligible"`
	SubscriptionActive    bool            `json:"subscription_active"`
	TotalMonthsSubscribed int             `json:"total_months_subscribed"`
	LastPaymentDate       *time.Time      `json:"last_payment_date,omitempty"`
	LifetimePaymentTotal  decimal.Decimal `json:"lifetime_payment_total"`
	HasReceivedPayout     bool            `json:"has_received_payout"`
	Notes                 string          `json:"notes,omitempty"`
}

type QueueEntryResponse struct {
	MemberResponse
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	ProfileStatus string     `json:"profile_status"`
	JoinDate      *time.Time `json:"join_date,omitempty"`
	Enriched      bool       `json:"enriched"`
}

type ListQueueResponse struct {
	Items []QueueEntryResponse `json:"items"`
	Total int                  `json:"total"`
}

type RecalculateResponse struct {
	UpdatedCount int `json:"updated_count"`
	Total        int `json:"total"`
}

type QueueStatsResponse struct {
	TotalMembers             int             `json:"total_members"`
	ActiveMembers            int             `json:"active_members"`
	EligibleMembers          int             `json:"eligible_members"`
	TotalRevenue             decimal.Decimal `json:"total_revenue"`
	PotentialWinners         int             `json:"potential_winners"`
	PotentialPayoutPerWinner decimal.Decimal `json:"potential_payout_per_winner"`
	Degraded                 bool            `json:"degraded"`
}

type WinnerItem struct {
	MemberID      string `json:"member_id"`
	QueuePosition int    `json:"queue_position"`
}

type WinnersResponse struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	WinnerCount     int             `json:"winner_count"`
	PerWinnerPayout decimal.Decimal `json:"per_winner_payout"`
	Items           []WinnerItem    `json:"items"`
}
