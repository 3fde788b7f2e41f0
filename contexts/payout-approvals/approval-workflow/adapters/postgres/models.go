package postgresadapter

import (
	"time"

	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"

	"github.com/shopspring/decimal"
)

type workflowModel struct {
	WorkflowID        string          `gorm:"column:workflow_id;primaryKey"`
	PayoutID          string          `gorm:"column:payout_id;uniqueIndex"`
	UserID            string          `gorm:"column:user_id"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(14,2)"`
	RequiredApprovals int             `gorm:"column:required_approvals"`
	Status            string          `gorm:"column:status"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
	CompletedAt       *time.Time      `gorm:"column:completed_at"`
}

func (workflowModel) TableName() string {
	return "payout_workflows"
}

type approvalModel struct {
	WorkflowID string    `gorm:"column:workflow_id;primaryKey"`
	AdminID    string    `gorm:"column:admin_id;primaryKey"`
	Slot       int       `gorm:"column:slot"`
	AdminName  string    `gorm:"column:admin_name"`
	AdminEmail string    `gorm:"column:admin_email"`
	Decision   string    `gorm:"column:decision"`
	Reason     string    `gorm:"column:reason"`
	VotedAt    time.Time `gorm:"column:voted_at"`
}

func (approvalModel) TableName() string {
	return "payout_workflow_approvals"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	Channel      string     `gorm:"column:channel"`
	EventType    string     `gorm:"column:event_type"`
	WorkflowID   string     `gorm:"column:workflow_id;index"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	Attempts     int        `gorm:"column:attempts"`
	LastError    string     `gorm:"column:last_error"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	AttemptedAt  *time.Time `gorm:"column:attempted_at"`
	DeliveredAt  *time.Time `gorm:"column:delivered_at"`
	ClaimedUntil *time.Time `gorm:"column:claimed_until"`
}

func (outboxModel) TableName() string {
	return "approval_outbox"
}

type auditEntryModel struct {
	EntryID    string    `gorm:"column:entry_id;primaryKey"`
	WorkflowID string    `gorm:"column:workflow_id;index"`
	Action     string    `gorm:"column:action"`
	Actor      string    `gorm:"column:actor"`
	Details    []byte    `gorm:"column:details"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (auditEntryModel) TableName() string {
	return "audit_entries"
}

func workflowModelFromEntity(workflow entities.PayoutWorkflow) workflowModel {
	return workflowModel{
		WorkflowID:        workflow.WorkflowID,
		PayoutID:          workflow.PayoutID,
		UserID:            workflow.UserID,
		Amount:            workflow.Amount,
		RequiredApprovals: workflow.RequiredApprovals,
		Status:            string(workflow.Status),
		CreatedAt:         workflow.CreatedAt.UTC(),
		UpdatedAt:         workflow.UpdatedAt.UTC(),
		CompletedAt:       utcPointer(workflow.CompletedAt),
	}
}

func (m workflowModel) toEntity(approvals []approvalModel) entities.PayoutWorkflow {
	approvers := make([]entities.Approval, 0, len(approvals))
	for _, row := range approvals {
		approvers = append(approvers, row.toEntity())
	}
	return entities.PayoutWorkflow{
		WorkflowID:        m.WorkflowID,
		PayoutID:          m.PayoutID,
		UserID:            m.UserID,
		Amount:            m.Amount,
		RequiredApprovals: m.RequiredApprovals,
		Approvers:         approvers,
		Status:            entities.WorkflowStatus(m.Status),
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
		CompletedAt:       utcPointer(m.CompletedAt),
	}
}

func approvalModelFromEntity(workflowID string, slot int, approval entities.Approval) approvalModel {
	return approvalModel{
		WorkflowID: workflowID,
		AdminID:    approval.AdminID,
		Slot:       slot,
		AdminName:  approval.AdminName,
		AdminEmail: approval.AdminEmail,
		Decision:   string(approval.Decision),
		Reason:     approval.Reason,
		VotedAt:    approval.Timestamp.UTC(),
	}
}

func (m approvalModel) toEntity() entities.Approval {
	return entities.Approval{
		AdminID:    m.AdminID,
		AdminName:  m.AdminName,
		AdminEmail: m.AdminEmail,
		Decision:   entities.Decision(m.Decision),
		Reason:     m.Reason,
		Timestamp:  m.VotedAt.UTC(),
	}
}

func utcPointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
