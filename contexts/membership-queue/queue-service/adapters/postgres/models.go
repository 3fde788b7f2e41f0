package postgresadapter

import (
	"time"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"

	"github.com/shopspring/decimal"
)

type queueMemberModel struct {
	MemberID              string          `gorm:"column:member_id;primaryKey"`
	QueuePosition         int             `gorm:"column:queue_position;not null;index"`
	IsEligible            bool            `gorm:"column:is_eligible;not null"`
	SubscriptionActive    bool            `gorm:"column:subscription_active;not null"`
	TotalMonthsSubscribed int             `gorm:"column:total_months_subscribed;not null"`
	LastPaymentDate       *time.Time      `gorm:"column:last_payment_date"`
	LifetimePaymentTotal  decimal.Decimal `gorm:"column:lifetime_payment_total;type:numeric(14,2);not null"`
	HasReceivedPayout     bool            `gorm:"column:has_received_payout;not null"`
	Notes                 string          `gorm:"column:notes"`
	InsertionSeq          int64           `gorm:"column:insertion_seq;not null;uniqueIndex"`
	CreatedAt             time.Time       `gorm:"column:created_at"`
	UpdatedAt             time.Time       `gorm:"column:updated_at"`
}

func (queueMemberModel) TableName() string {
	return "queue_members"
}

func (m queueMemberModel) toEntity() entities.Member {
	return entities.Member{
		MemberID:              m.MemberID,
		QueuePosition:         m.QueuePosition,
		IsEligible:            m.IsEligible,
		SubscriptionActive:    m.SubscriptionActive,
		TotalMonthsSubscribed: m.TotalMonthsSubscribed,
		LastPaymentDate:       utcPointer(m.LastPaymentDate),
		LifetimePaymentTotal:  m.LifetimePaymentTotal,
		HasReceivedPayout:     m.HasReceivedPayout,
		Notes:                 m.Notes,
		InsertionSeq:          m.InsertionSeq,
		CreatedAt:             m.CreatedAt.UTC(),
		UpdatedAt:             m.UpdatedAt.UTC(),
	}
}

func queueMemberModelFromEntity(member entities.Member) queueMemberModel {
	return queueMemberModel{
		MemberID:              member.MemberID,
		QueuePosition:         member.QueuePosition,
		IsEligible:            member.IsEligible,
		SubscriptionActive:    member.SubscriptionActive,
		TotalMonthsSubscribed: member.TotalMonthsSubscribed,
		LastPaymentDate:       utcPointer(member.LastPaymentDate),
		LifetimePaymentTotal:  member.LifetimePaymentTotal,
		HasReceivedPayout:     member.HasReceivedPayout,
		Notes:                 member.Notes,
		InsertionSeq:          member.InsertionSeq,
		CreatedAt:             member.CreatedAt.UTC(),
		UpdatedAt:             member.UpdatedAt.UTC(),
	}
}

// memberUpdatesFromEntity lists the writable columns explicitly so zero
// values (false, 0, "") are persisted too.
func memberUpdatesFromEntity(member entities.Member) map[string]any {
	return map[string]any{
		"queue_position":          member.QueuePosition,
		"is_eligible":             member.IsEligible,
		"subscription_active":     member.SubscriptionActive,
		"total_months_subscribed": member.TotalMonthsSubscribed,
		"last_payment_date":       utcPointer(member.LastPaymentDate),
		"lifetime_payment_total":  member.LifetimePaymentTotal,
		"has_received_payout":     member.HasReceivedPayout,
		"notes":                   member.Notes,
		"updated_at":              member.UpdatedAt.UTC(),
	}
}

func toMemberEntities(rows []queueMemberModel) []entities.Member {
	items := make([]entities.Member, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type memberProfileModel struct {
	MemberID string     `gorm:"column:member_id;primaryKey"`
	Name     string     `gorm:"column:name"`
	Email    string     `gorm:"column:email"`
	Status   string     `gorm:"column:status"`
	JoinDate *time.Time `gorm:"column:join_date"`
}

func (memberProfileModel) TableName() string {
	return "member_profiles"
}

func (m memberProfileModel) toEntity() entities.Profile {
	return entities.Profile{
		MemberID: m.MemberID,
		Name:     m.Name,
		Email:    m.Email,
		Status:   m.Status,
		JoinDate: utcPointer(m.JoinDate),
	}
}

type paymentModel struct {
	ID        string          `gorm:"column:id;primaryKey"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Status    string          `gorm:"column:status;index"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (paymentModel) TableName() string {
	return "payments"
}

func (m paymentModel) toEntity() entities.Payment {
	return entities.Payment{
		PaymentID: m.ID,
		Amount:    m.Amount,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func utcPointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}
