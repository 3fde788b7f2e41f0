package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type WorkflowStatus string

const (
	WorkflowStatusPending  WorkflowStatus = "pending"
	WorkflowStatusApproved WorkflowStatus = "approved"
	WorkflowStatusRejected WorkflowStatus = "rejected"
)

func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusApproved || s == WorkflowStatusRejected
}

type Decision string

const (
	DecisionApproved  Decision = "approved"
	DecisionRejected  Decision = "rejected"
	DecisionUndefined Decision = "undefined"
)

// ParseDecision accepts only the two votable decisions. "undefined" is the
// state of an admin who has not voted and cannot be submitted.
func ParseDecision(raw string) (Decision, bool) {
	switch Decision(strings.ToLower(strings.TrimSpace(raw))) {
	case DecisionApproved:
		return DecisionApproved, true
	case DecisionRejected:
		return DecisionRejected, true
	default:
		return DecisionUndefined, false
	}
}

type Approval struct {
	AdminID    string
	AdminName  string
	AdminEmail string
	Decision   Decision
	Reason     string
	Timestamp  time.Time
}

// DisplayName is what notifications show for the admin.
func (a Approval) DisplayName() string {
	if name := strings.TrimSpace(a.AdminName); name != "" {
		return name
	}
	return a.AdminID
}

type PayoutWorkflow struct {
	WorkflowID        string
	PayoutID          string
	UserID            string
	Amount            decimal.Decimal
	RequiredApprovals int
	Approvers         []Approval
	Status            WorkflowStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}

type Evaluation struct {
	Status               WorkflowStatus
	ApprovedCount        int
	RejectedCount        int
	PendingApproverCount int
	// Rejection is the earliest rejecting vote when Status is rejected.
	Rejection *Approval
	// FinalApprover is the vote that completed the quorum when Status is
	// approved.
	FinalApprover *Approval
}
