package ports

import (
	"context"
	"encoding/json"
	"time"

	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
)

const (
	ChannelNotification = "notification"
	ChannelAudit        = "audit"
)

// EventEnvelope is the outbox payload. EventID doubles as the idempotency
// key "<workflowID>:<transition>:<channel>".
type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	Channel          string          `json:"channel"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// WorkflowChange is what a decision hands back to the repository to commit:
// the next workflow state and the outbox rows produced by the transition.
type WorkflowChange struct {
	Workflow entities.PayoutWorkflow
	Outbox   []EventEnvelope
}

// WorkflowDecision runs while the repository holds the workflow row lock.
type WorkflowDecision func(current entities.PayoutWorkflow) (WorkflowChange, error)

type WorkflowRepository interface {
	CreateWorkflow(ctx context.Context, workflow entities.PayoutWorkflow) error
	GetWorkflow(ctx context.Context, workflowID string) (entities.PayoutWorkflow, error)
	// ApplyDecision commits the vote, the status transition and the outbox
	// rows together or not at all.
	ApplyDecision(ctx context.Context, workflowID string, decide WorkflowDecision) (entities.PayoutWorkflow, error)
}

type OutboxMessage struct {
	OutboxID  string
	Channel   string
	EventType string
	Payload   []byte
	Attempts  int
	LastError string
	CreatedAt time.Time
}

type OutboxRepository interface {
	// ClaimPendingOutbox leases up to limit pending rows until now+lease.
	// A leased row is not returned to any other caller before the lease
	// runs out, so concurrent relays never hold the same row.
	ClaimPendingOutbox(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]OutboxMessage, error)
	MarkOutboxDelivered(ctx context.Context, outboxID string, deliveredAt time.Time) error
	// MarkOutboxAttemptFailed records a failed delivery and releases the
	// lease. A dead row is never claimed again.
	MarkOutboxAttemptFailed(ctx context.Context, outboxID string, reason string, failedAt time.Time, dead bool) error
}

type NotificationDispatcher interface {
	Push(ctx context.Context, event EventEnvelope) error
}

type AuditEntry struct {
	EntryID    string         `json:"entry_id"`
	WorkflowID string         `json:"workflow_id"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor"`
	Details    map[string]any `json:"details"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// AuditSink must be idempotent on EntryID.
type AuditSink interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// Retrier runs op until it succeeds or the policy gives up.
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// Observer receives workflow and delivery counters. Implementations must be
// safe for concurrent use.
type Observer interface {
	WorkflowTransitioned(status string)
	OutboxDelivery(channel string, delivered bool)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
