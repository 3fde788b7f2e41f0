// Package approvalworkflow implements the multi-approver payout sign-off
// inside the payout-approvals context.
//
// A workflow collects one revisable vote per admin while pending and is
// re-evaluated from its full vote history after every vote. Terminal
// transitions write notification and audit records to a transactional
// outbox in the same commit; a relay worker delivers them at-least-once.
package approvalworkflow
