package commands

import (
	"encoding/json"
	"strings"
	"time"

	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
)

const (
	EventPayoutApproved = "payout.approval_workflow.approved"
	EventPayoutRejected = "payout.approval_workflow.rejected"

	AuditActionCompleted = "approval_workflow_completed"
	AuditActionRejected  = "approval_workflow_rejected"

	auditActor = "system"
)

// IdempotencyKey identifies one delivery of one transition on one channel.
func IdempotencyKey(workflowID string, transition entities.WorkflowStatus, channel string) string {
	return strings.TrimSpace(workflowID) + ":" + string(transition) + ":" + channel
}

// transitionEvents builds the notification and audit envelopes for a
// workflow that has just reached a terminal status.
func transitionEvents(workflow entities.PayoutWorkflow, evaluation entities.Evaluation, occurredAt time.Time) ([]ports.EventEnvelope, error) {
	var (
		notificationType string
		notification     map[string]any
		audit            ports.AuditEntry
	)
	audit = ports.AuditEntry{
		EntryID:    IdempotencyKey(workflow.WorkflowID, evaluation.Status, ports.ChannelAudit),
		WorkflowID: workflow.WorkflowID,
		Actor:      auditActor,
		OccurredAt: occurredAt.UTC(),
	}

	switch evaluation.Status {
	case entities.WorkflowStatusApproved:
		finalApprover := ""
		if evaluation.FinalApprover != nil {
			finalApprover = evaluation.FinalApprover.DisplayName()
		}
		notificationType = EventPayoutApproved
		notification = map[string]any{
			"workflow_id":    workflow.WorkflowID,
			"payout_id":      workflow.PayoutID,
			"user_id":        workflow.UserID,
			"amount":         workflow.Amount.StringFixed(2),
			"approval_count": evaluation.ApprovedCount,
			"final_approver": finalApprover,
		}
		audit.Action = AuditActionCompleted
		audit.Details = map[string]any{
			"current_approvals":  evaluation.ApprovedCount,
			"required_approvals": workflow.RequiredApprovals,
			"final_status":       string(entities.WorkflowStatusApproved),
		}
	case entities.WorkflowStatusRejected:
		rejectedBy, reason := "", ""
		if evaluation.Rejection != nil {
			rejectedBy = evaluation.Rejection.DisplayName()
			reason = evaluation.Rejection.Reason
		}
		notificationType = EventPayoutRejected
		notification = map[string]any{
			"workflow_id": workflow.WorkflowID,
			"payout_id":   workflow.PayoutID,
			"user_id":     workflow.UserID,
			"reason":      reason,
			"rejected_by": rejectedBy,
		}
		audit.Action = AuditActionRejected
		audit.Details = map[string]any{
			"rejected_by":  rejectedBy,
			"reason":       reason,
			"final_status": string(entities.WorkflowStatusRejected),
		}
	default:
		return nil, nil
	}

	notificationEnvelope, err := newWorkflowEnvelope(
		IdempotencyKey(workflow.WorkflowID, evaluation.Status, ports.ChannelNotification),
		notificationType,
		ports.ChannelNotification,
		workflow.WorkflowID,
		occurredAt,
		notification,
	)
	if err != nil {
		return nil, err
	}
	auditEnvelope, err := newWorkflowEnvelope(
		audit.EntryID,
		"audit."+audit.Action,
		ports.ChannelAudit,
		workflow.WorkflowID,
		occurredAt,
		audit,
	)
	if err != nil {
		return nil, err
	}
	return []ports.EventEnvelope{notificationEnvelope, auditEnvelope}, nil
}

func newWorkflowEnvelope(
	eventID string,
	eventType string,
	channel string,
	workflowID string,
	occurredAt time.Time,
	data any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		Channel:          channel,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "approval-workflow",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "workflow_id",
		PartitionKey:     workflowID,
		Data:             payload,
	}, nil
}
