package entities

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// EndOfQueuePosition parks a freshly added member behind everyone else until
// the next recalculation assigns a real rank.
const EndOfQueuePosition = math.MaxInt32

type Member struct {
	MemberID              string
	QueuePosition         int
	IsEligible            bool
	SubscriptionActive    bool
	TotalMonthsSubscribed int
	LastPaymentDate       *time.Time
	LifetimePaymentTotal  decimal.Decimal
	HasReceivedPayout     bool
	Notes                 string
	InsertionSeq          int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// MemberState is the caller-supplied state for a new member. Position is not
// part of it: new members always start at EndOfQueuePosition.
type MemberState struct {
	IsEligible            bool
	SubscriptionActive    bool
	TotalMonthsSubscribed int
	LastPaymentDate       *time.Time
	LifetimePaymentTotal  decimal.Decimal
	HasReceivedPayout     bool
	Notes                 string
}

// MemberUpdate lists every field a caller may change. Nil fields are left
// untouched.
type MemberUpdate struct {
	QueuePosition         *int
	SubscriptionActive    *bool
	IsEligible            *bool
	TotalMonthsSubscribed *int
	LastPaymentDate       *time.Time
	LifetimePaymentTotal  *decimal.Decimal
	HasReceivedPayout     *bool
	Notes                 *string
}

func (u MemberUpdate) IsEmpty() bool {
	return u.QueuePosition == nil &&
		u.SubscriptionActive == nil &&
		u.IsEligible == nil &&
		u.TotalMonthsSubscribed == nil &&
		u.LastPaymentDate == nil &&
		u.LifetimePaymentTotal == nil &&
		u.HasReceivedPayout == nil &&
		u.Notes == nil
}

// Apply returns a copy of member with the update merged in.
func (u MemberUpdate) Apply(member Member) Member {
	if u.QueuePosition != nil {
		member.QueuePosition = *u.QueuePosition
	}
	if u.SubscriptionActive != nil {
		member.SubscriptionActive = *u.SubscriptionActive
	}
	if u.IsEligible != nil {
		member.IsEligible = *u.IsEligible
	}
	if u.TotalMonthsSubscribed != nil {
		member.TotalMonthsSubscribed = *u.TotalMonthsSubscribed
	}
	if u.LastPaymentDate != nil {
		paidAt := u.LastPaymentDate.UTC()
		member.LastPaymentDate = &paidAt
	}
	if u.LifetimePaymentTotal != nil {
		member.LifetimePaymentTotal = *u.LifetimePaymentTotal
	}
	if u.HasReceivedPayout != nil {
		member.HasReceivedPayout = *u.HasReceivedPayout
	}
	if u.Notes != nil {
		member.Notes = *u.Notes
	}
	return member
}

// Profile is the read-only projection owned by the member/profile store.
type Profile struct {
	MemberID string
	Name     string
	Email    string
	Status   string
	JoinDate *time.Time
}

type QueueEntry struct {
	Member  Member
	Profile Profile
	// Enriched is false when the profile lookup failed and Profile carries
	// placeholder values.
	Enriched bool
}

type Payment struct {
	PaymentID string
	Amount    decimal.Decimal
	Status    string
	CreatedAt time.Time
}

const PaymentStatusCompleted = "completed"
