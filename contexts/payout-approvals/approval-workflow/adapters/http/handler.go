package httpadapter

import (
	"context"
	"log/slog"

	application "fundqueue/contexts/payout-approvals/approval-workflow/application"
	"fundqueue/contexts/payout-approvals/approval-workflow/application/commands"
	"fundqueue/contexts/payout-approvals/approval-workflow/application/queries"
	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
	httptransport "fundqueue/contexts/payout-approvals/approval-workflow/transport/http"
)

type Handler struct {
	Workflows commands.WorkflowUseCase
	Query     queries.GetWorkflowUseCase
	Logger    *slog.Logger
}

// CreateWorkflowHandler godoc
// @Summary Create a payout approval workflow
// @Description Opens a pending workflow for one payout.
// @Tags payout-approvals
// @Accept json
// @Produce json
// @Param request body httptransport.CreateWorkflowRequest true "Workflow"
// @Success 201 {object} httptransport.WorkflowResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /payout-workflows [post]
func (h Handler) CreateWorkflowHandler(
	ctx context.Context,
	req httptransport.CreateWorkflowRequest,
) (httptransport.WorkflowResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create workflow request received",
		"event", "http_create_workflow_received",
		"module", "payout-approvals/approval-workflow",
		"layer", "transport",
		"payout_id", req.PayoutID,
	)

	workflow, err := h.Workflows.CreateWorkflow(ctx, commands.CreateWorkflowCommand{
		PayoutID:          req.PayoutID,
		UserID:            req.UserID,
		Amount:            req.Amount,
		RequiredApprovals: req.RequiredApprovals,
	})
	if err != nil {
		logger.Error("create workflow request failed",
			"event", "http_create_workflow_failed",
			"module", "payout-approvals/approval-workflow",
			"layer", "transport",
			"payout_id", req.PayoutID,
			"error", err.Error(),
		)
		return httptransport.WorkflowResponse{}, err
	}
	return mapWorkflow(workflow, entities.Evaluation{
		Status:               workflow.Status,
		PendingApproverCount: workflow.RequiredApprovals,
	}), nil
}

// GetWorkflowHandler godoc
// @Summary Get a payout approval workflow
// @Description Returns the workflow with its vote tally.
// @Tags payout-approvals
// @Accept json
// @Produce json
// @Param workflow_id path string true "Workflow id"
// @Success 200 {object} httptransport.WorkflowResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /payout-workflows/{workflow_id} [get]
func (h Handler) GetWorkflowHandler(ctx context.Context, workflowID string) (httptransport.WorkflowResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("get workflow request received",
		"event", "http_get_workflow_received",
		"module", "payout-approvals/approval-workflow",
		"layer", "transport",
		"workflow_id", workflowID,
	)

	view, err := h.Query.GetWorkflow(ctx, workflowID)
	if err != nil {
		logger.Error("get workflow request failed",
			"event", "http_get_workflow_failed",
			"module", "payout-approvals/approval-workflow",
			"layer", "transport",
			"workflow_id", workflowID,
			"error", err.Error(),
		)
		return httptransport.WorkflowResponse{}, err
	}
	return mapWorkflow(view.Workflow, view.Evaluation), nil
}

// SubmitApprovalHandler godoc
// @Summary Submit an approval vote
// @Description Records one admin vote and evaluates the quorum.
// @Tags payout-approvals
// @Accept json
// @Produce json
// @Param X-Admin-Id header string true "Voting admin id"
// @Param workflow_id path string true "Workflow id"
// @Param request body httptransport.SubmitApprovalRequest true "Vote"
// @Success 200 {object} httptransport.SubmitApprovalResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /payout-workflows/{workflow_id}/approvals [post]
func (h Handler) SubmitApprovalHandler(
	ctx context.Context,
	workflowID string,
	adminID string,
	req httptransport.SubmitApprovalRequest,
) (httptransport.SubmitApprovalResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("submit approval request received",
		"event", "http_submit_approval_received",
		"module", "payout-approvals/approval-workflow",
		"layer", "transport",
		"workflow_id", workflowID,
		"admin_id", adminID,
	)

	result, err := h.Workflows.SubmitApproval(ctx, commands.SubmitApprovalCommand{
		WorkflowID: workflowID,
		AdminID:    adminID,
		AdminName:  req.AdminName,
		AdminEmail: req.AdminEmail,
		Decision:   req.Decision,
		Reason:     req.Reason,
	})
	if err != nil {
		logger.Error("submit approval request failed",
			"event", "http_submit_approval_failed",
			"module", "payout-approvals/approval-workflow",
			"layer", "transport",
			"workflow_id", workflowID,
			"admin_id", adminID,
			"error", err.Error(),
		)
		return httptransport.SubmitApprovalResponse{}, err
	}
	return httptransport.SubmitApprovalResponse{
		Workflow:     mapWorkflow(result.Workflow, result.Evaluation),
		Transitioned: result.Transitioned,
	}, nil
}

func mapWorkflow(workflow entities.PayoutWorkflow, evaluation entities.Evaluation) httptransport.WorkflowResponse {
	approvers := make([]httptransport.ApprovalResponse, 0, len(workflow.Approvers))
	for _, approval := range workflow.Approvers {
		approvers = append(approvers, httptransport.ApprovalResponse{
			AdminID:    approval.AdminID,
			AdminName:  approval.AdminName,
			AdminEmail: approval.AdminEmail,
			Decision:   string(approval.Decision),
			Reason:     approval.Reason,
			Timestamp:  approval.Timestamp,
		})
	}
	return httptransport.WorkflowResponse{
		WorkflowID:           workflow.WorkflowID,
		PayoutID:             workflow.PayoutID,
		UserID:               workflow.UserID,
		Amount:               workflow.Amount,
		RequiredApprovals:    workflow.RequiredApprovals,
		Status:               string(workflow.Status),
		Approvers:            approvers,
		ApprovedCount:        evaluation.ApprovedCount,
		RejectedCount:        evaluation.RejectedCount,
		PendingApproverCount: evaluation.PendingApproverCount,
		CreatedAt:            workflow.CreatedAt,
		UpdatedAt:            workflow.UpdatedAt,
		CompletedAt:          workflow.CompletedAt,
	}
}
