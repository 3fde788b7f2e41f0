package services

import (
	"strings"

	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
)

// Evaluate derives the workflow outcome from its vote history alone.
// Any rejection wins over any number of approvals.
func Evaluate(workflow entities.PayoutWorkflow) entities.Evaluation {
	var (
		approved  int
		rejected  int
		rejection *entities.Approval
		final     *entities.Approval
	)
	for i := range workflow.Approvers {
		vote := workflow.Approvers[i]
		switch vote.Decision {
		case entities.DecisionApproved:
			approved++
			if final == nil || !vote.Timestamp.Before(final.Timestamp) {
				final = &vote
			}
		case entities.DecisionRejected:
			rejected++
			if rejection == nil || vote.Timestamp.Before(rejection.Timestamp) {
				rejection = &vote
			}
		}
	}

	evaluation := entities.Evaluation{
		Status:               entities.WorkflowStatusPending,
		ApprovedCount:        approved,
		RejectedCount:        rejected,
		PendingApproverCount: pendingApprovers(workflow.RequiredApprovals, approved),
	}
	switch {
	case rejected > 0:
		evaluation.Status = entities.WorkflowStatusRejected
		evaluation.Rejection = rejection
	case approved >= workflow.RequiredApprovals:
		evaluation.Status = entities.WorkflowStatusApproved
		evaluation.FinalApprover = final
	}
	return evaluation
}

func pendingApprovers(required int, approved int) int {
	if remaining := required - approved; remaining > 0 {
		return remaining
	}
	return 0
}

// RecordVote returns a copy of approvers with vote recorded. An admin that
// already voted keeps their slot in the list and has the vote overwritten.
func RecordVote(approvers []entities.Approval, vote entities.Approval) []entities.Approval {
	adminID := strings.TrimSpace(vote.AdminID)
	vote.AdminID = adminID
	next := make([]entities.Approval, 0, len(approvers)+1)
	replaced := false
	for _, existing := range approvers {
		if strings.TrimSpace(existing.AdminID) == adminID {
			next = append(next, vote)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, vote)
	}
	return next
}
