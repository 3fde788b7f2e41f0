package queries

import (
	"context"
	"strings"

	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/domain/services"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
)

type WorkflowView struct {
	Workflow   entities.PayoutWorkflow
	Evaluation entities.Evaluation
}

type GetWorkflowUseCase struct {
	Workflows ports.WorkflowRepository
}

func (u GetWorkflowUseCase) GetWorkflow(ctx context.Context, workflowID string) (WorkflowView, error) {
	workflowID = strings.TrimSpace(workflowID)
	if workflowID == "" {
		return WorkflowView{}, domainerrors.ErrInvalidInput
	}
	workflow, err := u.Workflows.GetWorkflow(ctx, workflowID)
	if err != nil {
		return WorkflowView{}, err
	}
	return WorkflowView{
		Workflow:   workflow,
		Evaluation: services.Evaluate(workflow),
	}, nil
}
