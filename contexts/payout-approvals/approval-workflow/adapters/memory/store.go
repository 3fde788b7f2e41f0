package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
	"fundqueue/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message     ports.OutboxMessage
	status       string
	deliveredAt  *time.Time
	claimedUntil time.Time
}

// Store keeps workflows, their outbox and the audit trail in process.
// ApplyDecision runs the decision under the store mutex, which is the
// in-memory counterpart of the postgres row lock.
type Store struct {
	mu sync.Mutex

	workflows   map[string]entities.PayoutWorkflow
	byPayout    map[string]string
	rows        map[string]*outboxRecord
	outboxOrder []string
	audit       map[string]ports.AuditEntry
	auditOrder  []string

	auditErr error
}

func NewStore() *Store {
	return &Store{
		workflows: make(map[string]entities.PayoutWorkflow),
		byPayout:  make(map[string]string),
		rows:      make(map[string]*outboxRecord),
		audit:     make(map[string]ports.AuditEntry),
	}
}

func (s *Store) CreateWorkflow(_ context.Context, workflow entities.PayoutWorkflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	workflowID := strings.TrimSpace(workflow.WorkflowID)
	payoutID := strings.TrimSpace(workflow.PayoutID)
	if _, exists := s.byPayout[payoutID]; exists {
		return domainerrors.ErrWorkflowConflict
	}
	if _, exists := s.workflows[workflowID]; exists {
		return domainerrors.ErrWorkflowConflict
	}
	s.workflows[workflowID] = cloneWorkflow(workflow)
	s.byPayout[payoutID] = workflowID
	return nil
}

func (s *Store) GetWorkflow(_ context.Context, workflowID string) (entities.PayoutWorkflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workflow, ok := s.workflows[strings.TrimSpace(workflowID)]
	if !ok {
		return entities.PayoutWorkflow{}, domainerrors.ErrWorkflowNotFound
	}
	return cloneWorkflow(workflow), nil
}

func (s *Store) ApplyDecision(_ context.Context, workflowID string, decide ports.WorkflowDecision) (entities.PayoutWorkflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workflowID = strings.TrimSpace(workflowID)
	current, ok := s.workflows[workflowID]
	if !ok {
		return entities.PayoutWorkflow{}, domainerrors.ErrWorkflowNotFound
	}
	change, err := decide(cloneWorkflow(current))
	if err != nil {
		return entities.PayoutWorkflow{}, err
	}

	records := make([]*outboxRecord, 0, len(change.Outbox))
	for _, envelope := range change.Outbox {
		payload, err := json.Marshal(envelope)
		if err != nil {
			return entities.PayoutWorkflow{}, fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, err)
		}
		records = append(records, &outboxRecord{
			message: ports.OutboxMessage{
				OutboxID:  envelope.EventID,
				Channel:   envelope.Channel,
				EventType: envelope.EventType,
				Payload:   payload,
				CreatedAt: envelope.OccurredAt.UTC(),
			},
			status: outbox.StatusPending,
		})
	}

	next := cloneWorkflow(change.Workflow)
	next.WorkflowID = current.WorkflowID
	next.PayoutID = current.PayoutID
	next.CreatedAt = current.CreatedAt
	s.workflows[workflowID] = next
	for _, record := range records {
		if _, exists := s.rows[record.message.OutboxID]; exists {
			continue
		}
		s.rows[record.message.OutboxID] = record
		s.outboxOrder = append(s.outboxOrder, record.message.OutboxID)
	}
	return cloneWorkflow(next), nil
}

// ListPendingOutbox returns pending rows without leasing them.
func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectPending(limit, func(*outboxRecord) bool { return true }), nil
}

// ClaimPendingOutbox leases rows under the store mutex, the in-memory
// counterpart of SELECT ... FOR UPDATE SKIP LOCKED.
func (s *Store) ClaimPendingOutbox(_ context.Context, limit int, now time.Time, lease time.Duration) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now = now.UTC()
	until := now.Add(lease)
	return s.collectPending(limit, func(record *outboxRecord) bool {
		if record.claimedUntil.After(now) {
			return false
		}
		record.claimedUntil = until
		return true
	}), nil
}

func (s *Store) collectPending(limit int, take func(*outboxRecord) bool) []ports.OutboxMessage {
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, outboxID := range s.outboxOrder {
		record := s.rows[outboxID]
		if outbox.IsTerminal(record.status) || !take(record) {
			continue
		}
		message := record.message
		message.Payload = append([]byte(nil), record.message.Payload...)
		items = append(items, message)
		if len(items) == limit {
			break
		}
	}
	return items
}

func (s *Store) MarkOutboxDelivered(_ context.Context, outboxID string, deliveredAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.rows[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrWorkflowNotFound
	}
	at := deliveredAt.UTC()
	record.status = outbox.StatusDelivered
	record.deliveredAt = &at
	record.claimedUntil = time.Time{}
	return nil
}

func (s *Store) MarkOutboxAttemptFailed(_ context.Context, outboxID string, reason string, _ time.Time, dead bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.rows[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrWorkflowNotFound
	}
	record.message.Attempts++
	record.message.LastError = reason
	record.claimedUntil = time.Time{}
	if dead {
		record.status = outbox.StatusDead
	}
	return nil
}

// Append implements ports.AuditSink. Replays of an entry id are no-ops.
func (s *Store) Append(_ context.Context, entry ports.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auditErr != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.auditErr)
	}
	entryID := strings.TrimSpace(entry.EntryID)
	if entryID == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, exists := s.audit[entryID]; exists {
		return nil
	}
	entry.EntryID = entryID
	s.audit[entryID] = entry
	s.auditOrder = append(s.auditOrder, entryID)
	return nil
}

// SetAuditError makes Append fail until cleared with nil.
func (s *Store) SetAuditError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

func (s *Store) AuditEntries() []ports.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.AuditEntry, 0, len(s.auditOrder))
	for _, entryID := range s.auditOrder {
		items = append(items, s.audit[entryID])
	}
	return items
}

// OutboxSnapshot returns every outbox row regardless of status, oldest first.
func (s *Store) OutboxSnapshot() []ports.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, outboxID := range s.outboxOrder {
		items = append(items, s.rows[outboxID].message)
	}
	return items
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var errNotificationsUnavailable = errors.New("notification dispatcher unavailable")

// Notifications records pushed notifications. FailNext makes the next n
// pushes fail, which drives the relay retry paths in tests.
type Notifications struct {
	mu       sync.Mutex
	events   []ports.EventEnvelope
	failNext int
}

func (n *Notifications) Push(_ context.Context, event ports.EventEnvelope) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext > 0 {
		n.failNext--
		return errNotificationsUnavailable
	}
	n.events = append(n.events, event)
	return nil
}

func (n *Notifications) FailNext(count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failNext = count
}

func (n *Notifications) Events() []ports.EventEnvelope {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.EventEnvelope(nil), n.events...)
}

func cloneWorkflow(workflow entities.PayoutWorkflow) entities.PayoutWorkflow {
	clone := workflow
	clone.Approvers = append([]entities.Approval{}, workflow.Approvers...)
	if workflow.CompletedAt != nil {
		completedAt := *workflow.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return clone
}

var _ ports.WorkflowRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.AuditSink = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.NotificationDispatcher = (*Notifications)(nil)
