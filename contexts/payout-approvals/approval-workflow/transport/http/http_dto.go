package http

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateWorkflowRequest struct {
	PayoutID          string          `json:"payout_id"`
	UserID            string          `json:"user_id"`
	Amount            decimal.Decimal `json:"amount"`
	RequiredApprovals int             `json:"required_approvals"`
}

// SubmitApprovalRequest carries the vote. The admin id itself comes from
// the X-Admin-Id header.
type SubmitApprovalRequest struct {
	Decision   string `json:"decision"`
	Reason     string `json:"reason,omitempty"`
	AdminName  string `json:"admin_name,omitempty"`
	AdminEmail string `json:"admin_email,omitempty"`
}

type ApprovalResponse struct {
	AdminID    string    `json:"admin_id"`
	AdminName  string    `json:"admin_name,omitempty"`
	AdminEmail string    `json:"admin_email,omitempty"`
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type WorkflowResponse struct {
	WorkflowID           string             `json:"workflow_id"`
	PayoutID             string             `json:"payout_id"`
	UserID               string             `json:"user_id"`
	Amount               decimal.Decimal    `json:"amount"`
	RequiredApprovals    int                `json:"required_approvals"`
	Status               string             `json:"status"`
	Approvers            []ApprovalResponse `json:"approvers"`
	ApprovedCount        int                `json:"approved_count"`
	RejectedCount        int                `json:"rejected_count"`
	PendingApproverCount int                `json:"pending_approver_count"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	CompletedAt          *time.Time         `json:"completed_at,omitempty"`
}

type SubmitApprovalResponse struct {
	Workflow     WorkflowResponse `json:"workflow"`
	Transitioned bool             `json:"transitioned"`
}
