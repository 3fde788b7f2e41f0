package commands

import (
	"context"
	"strings"

	application "fundqueue/contexts/payout-approvals/approval-workflow/application"
	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/domain/services"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
)

type SubmitApprovalCommand struct {
	WorkflowID string
	AdminID    string
	AdminName  string
	AdminEmail string
	Decision   string
	Reason     string
}

type SubmitApprovalResult struct {
	Workflow   entities.PayoutWorkflow
	Evaluation entities.Evaluation
	// Transitioned is true only for the vote that moved the workflow out
	// of pending.
	Transitioned bool
}

// SubmitApproval records or revises one admin's vote and re-evaluates the
// workflow under the repository row lock.
func (u WorkflowUseCase) SubmitApproval(ctx context.Context, cmd SubmitApprovalCommand) (SubmitApprovalResult, error) {
	logger := application.ResolveLogger(u.Logger)
	decision, ok := entities.ParseDecision(cmd.Decision)
	if !ok {
		return SubmitApprovalResult{}, domainerrors.ErrInvalidDecision
	}
	workflowID := strings.TrimSpace(cmd.WorkflowID)
	adminID := strings.TrimSpace(cmd.AdminID)
	reason := strings.TrimSpace(cmd.Reason)
	if workflowID == "" || adminID == "" {
		return SubmitApprovalResult{}, domainerrors.ErrInvalidInput
	}
	if decision == entities.DecisionRejected && reason == "" {
		return SubmitApprovalResult{}, domainerrors.ErrInvalidInput
	}

	var result SubmitApprovalResult
	updated, err := u.Workflows.ApplyDecision(ctx, workflowID, func(current entities.PayoutWorkflow) (ports.WorkflowChange, error) {
		if current.Status.IsTerminal() {
			return ports.WorkflowChange{}, domainerrors.ErrWorkflowClosed
		}
		now := u.now()
		next := current
		next.Approvers = services.RecordVote(current.Approvers, entities.Approval{
			AdminID:    adminID,
			AdminName:  strings.TrimSpace(cmd.AdminName),
			AdminEmail: strings.TrimSpace(cmd.AdminEmail),
			Decision:   decision,
			Reason:     reason,
			Timestamp:  now,
		})
		evaluation := services.Evaluate(next)
		next.Status = evaluation.Status
		next.UpdatedAt = now

		change := ports.WorkflowChange{Workflow: next}
		if evaluation.Status.IsTerminal() {
			completedAt := now
			next.CompletedAt = &completedAt
			change.Workflow = next
			outbox, err := transitionEvents(next, evaluation, now)
			if err != nil {
				return ports.WorkflowChange{}, err
			}
			change.Outbox = outbox
		}
		result = SubmitApprovalResult{
			Evaluation:   evaluation,
			Transitioned: evaluation.Status.IsTerminal(),
		}
		return change, nil
	})
	if err != nil {
		logger.Warn("approval vote not recorded",
			"event", "approval_workflow_vote_failed",
			"module", "payout-approvals/approval-workflow",
			"layer", "application",
			"workflow_id", workflowID,
			"admin_id", adminID,
			"decision", string(decision),
			"error", err.Error(),
		)
		return SubmitApprovalResult{}, err
	}
	result.Workflow = updated

	logger.Info("approval vote recorded",
		"event", "approval_workflow_vote_recorded",
		"module", "payout-approvals/approval-workflow",
		"layer", "application",
		"workflow_id", workflowID,
		"admin_id", adminID,
		"decision", string(decision),
		"status", string(updated.Status),
		"pending_approvers", result.Evaluation.PendingApproverCount,
	)
	if result.Transitioned {
		application.ResolveObserver(u.Observer).WorkflowTransitioned(string(updated.Status))
		logger.Info("approval workflow closed",
			"event", "approval_workflow_transitioned",
			"module", "payout-approvals/approval-workflow",
			"layer", "application",
			"workflow_id", workflowID,
			"payout_id", updated.PayoutID,
			"status", string(updated.Status),
		)
	}
	return result, nil
}
