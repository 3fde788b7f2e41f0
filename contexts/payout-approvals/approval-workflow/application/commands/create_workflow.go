package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "fundqueue/contexts/payout-approvals/approval-workflow/application"
	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"

	"github.com/shopspring/decimal"
)

type CreateWorkflowCommand struct {
	PayoutID          string
	UserID            string
	Amount            decimal.Decimal
	RequiredApprovals int
}

// WorkflowUseCase owns the write side of approval workflows.
type WorkflowUseCase struct {
	Workflows   ports.WorkflowRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Observer    ports.Observer
	Logger      *slog.Logger
}

func (u WorkflowUseCase) CreateWorkflow(ctx context.Context, cmd CreateWorkflowCommand) (entities.PayoutWorkflow, error) {
	logger := application.ResolveLogger(u.Logger)
	payoutID := strings.TrimSpace(cmd.PayoutID)
	userID := strings.TrimSpace(cmd.UserID)
	if payoutID == "" || userID == "" || cmd.RequiredApprovals < 1 || cmd.Amount.IsNegative() {
		return entities.PayoutWorkflow{}, domainerrors.ErrInvalidInput
	}

	workflowID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.PayoutWorkflow{}, err
	}
	now := u.now()
	workflow := entities.PayoutWorkflow{
		WorkflowID:        workflowID,
		PayoutID:          payoutID,
		UserID:            userID,
		Amount:            cmd.Amount,
		RequiredApprovals: cmd.RequiredApprovals,
		Approvers:         []entities.Approval{},
		Status:            entities.WorkflowStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.Workflows.CreateWorkflow(ctx, workflow); err != nil {
		logger.Warn("approval workflow create rejected",
			"event", "approval_workflow_create_failed",
			"module", "payout-approvals/approval-workflow",
			"layer", "application",
			"payout_id", payoutID,
			"error", err.Error(),
		)
		return entities.PayoutWorkflow{}, err
	}

	logger.Info("approval workflow created",
		"event", "approval_workflow_created",
		"module", "payout-approvals/approval-workflow",
		"layer", "application",
		"workflow_id", workflowID,
		"payout_id", payoutID,
		"required_approvals", cmd.RequiredApprovals,
	)
	return workflow, nil
}

func (u WorkflowUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
