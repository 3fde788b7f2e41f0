package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
	"fundqueue/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&workflowModel{}, &approvalModel{}, &outboxModel{}, &auditEntryModel{})
}

func (r *Repository) CreateWorkflow(ctx context.Context, workflow entities.PayoutWorkflow) error {
	row := workflowModelFromEntity(workflow)
	row.WorkflowID = strings.TrimSpace(row.WorkflowID)
	row.PayoutID = strings.TrimSpace(row.PayoutID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&workflowModel{}).
			Where("payout_id = ?", row.PayoutID).
			Count(&existing).
			Error; err != nil {
			return r.unavailable("approval_repo_create_lookup_failed", err, "payout_id", row.PayoutID)
		}
		if existing > 0 {
			return domainerrors.ErrWorkflowConflict
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrWorkflowConflict
			}
			return r.unavailable("approval_repo_create_failed", err,
				"workflow_id", row.WorkflowID,
				"payout_id", row.PayoutID,
			)
		}
		return nil
	})
}

func (r *Repository) GetWorkflow(ctx context.Context, workflowID string) (entities.PayoutWorkflow, error) {
	workflowID = strings.TrimSpace(workflowID)
	db := r.db.WithContext(ctx)
	var row workflowModel
	if err := db.Where("workflow_id = ?", workflowID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PayoutWorkflow{}, domainerrors.ErrWorkflowNotFound
		}
		return entities.PayoutWorkflow{}, r.unavailable("approval_repo_get_failed", err, "workflow_id", workflowID)
	}
	approvals, err := r.loadApprovals(db, workflowID)
	if err != nil {
		return entities.PayoutWorkflow{}, err
	}
	return row.toEntity(approvals), nil
}

func (r *Repository) ApplyDecision(ctx context.Context, workflowID string, decide ports.WorkflowDecision) (entities.PayoutWorkflow, error) {
	workflowID = strings.TrimSpace(workflowID)
	var updated entities.PayoutWorkflow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row workflowModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("workflow_id = ?", workflowID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrWorkflowNotFound
			}
			return r.unavailable("approval_repo_lock_failed", err, "workflow_id", workflowID)
		}
		approvals, err := r.loadApprovals(tx, workflowID)
		if err != nil {
			return err
		}

		current := row.toEntity(approvals)
		change, err := decide(current)
		if err != nil {
			return err
		}
		next := change.Workflow
		next.WorkflowID = current.WorkflowID
		next.PayoutID = current.PayoutID
		next.CreatedAt = current.CreatedAt

		for slot, approval := range next.Approvers {
			vote := approvalModelFromEntity(workflowID, slot, approval)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "workflow_id"}, {Name: "admin_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"slot":        vote.Slot,
					"admin_name":  vote.AdminName,
					"admin_email": vote.AdminEmail,
					"decision":    vote.Decision,
					"reason":      vote.Reason,
					"voted_at":    vote.VotedAt,
				}),
			}).Create(&vote).Error; err != nil {
				return r.unavailable("approval_repo_upsert_vote_failed", err,
					"workflow_id", workflowID,
					"admin_id", vote.AdminID,
				)
			}
		}

		if err := tx.Model(&workflowModel{}).
			Where("workflow_id = ?", workflowID).
			Updates(map[string]any{
				"status":       string(next.Status),
				"updated_at":   next.UpdatedAt.UTC(),
				"completed_at": utcPointer(next.CompletedAt),
			}).Error; err != nil {
			return r.unavailable("approval_repo_update_status_failed", err, "workflow_id", workflowID)
		}

		for _, envelope := range change.Outbox {
			if err := r.insertOutboxTx(tx, workflowID, envelope); err != nil {
				return err
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return entities.PayoutWorkflow{}, err
	}
	return updated, nil
}

func (r *Repository) insertOutboxTx(tx *gorm.DB, workflowID string, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.unavailable("approval_repo_outbox_marshal_failed", err, "event_id", envelope.EventID)
	}
	row := outboxModel{
		OutboxID:   strings.TrimSpace(envelope.EventID),
		Channel:    envelope.Channel,
		EventType:  envelope.EventType,
		WorkflowID: workflowID,
		Payload:    payload,
		Status:     outbox.StatusPending,
		CreatedAt:  envelope.OccurredAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return r.unavailable("approval_repo_outbox_insert_failed", err,
			"workflow_id", workflowID,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

// ListPendingOutbox returns pending rows without leasing them.
func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	if err := r.pendingOutbox(r.db.WithContext(ctx), limit).Find(&rows).Error; err != nil {
		return nil, r.unavailable("approval_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	return toOutboxMessages(rows), nil
}

// ClaimPendingOutbox locks unclaimed pending rows with SKIP LOCKED and
// stamps claimed_until in the same transaction, so a second relay polling
// the table concurrently skips them.
func (r *Repository) ClaimPendingOutbox(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]ports.OutboxMessage, error) {
	now = now.UTC()
	until := now.Add(lease)
	var rows []outboxModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.pendingOutbox(tx, limit).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(claimed_until IS NULL OR claimed_until <= ?)", now).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		outboxIDs := make([]string, 0, len(rows))
		for _, row := range rows {
			outboxIDs = append(outboxIDs, row.OutboxID)
		}
		return tx.Model(&outboxModel{}).
			Where("outbox_id IN ?", outboxIDs).
			Update("claimed_until", until).Error
	})
	if err != nil {
		return nil, r.unavailable("approval_repo_claim_pending_outbox_failed", err, "limit", limit)
	}
	return toOutboxMessages(rows), nil
}

func (r *Repository) pendingOutbox(db *gorm.DB, limit int) *gorm.DB {
	if limit <= 0 {
		limit = 100
	}
	return db.Model(&outboxModel{}).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Order("outbox_id ASC").
		Limit(limit)
}

func toOutboxMessages(rows []outboxModel) []ports.OutboxMessage {
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			Channel:   row.Channel,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			Attempts:  row.Attempts,
			LastError: row.LastError,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items
}

func (r *Repository) MarkOutboxDelivered(ctx context.Context, outboxID string, deliveredAt time.Time) error {
	outboxID = strings.TrimSpace(outboxID)
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":        outbox.StatusDelivered,
			"delivered_at":  deliveredAt.UTC(),
			"claimed_until": nil,
		})
	if result.Error != nil {
		return r.unavailable("approval_repo_mark_outbox_delivered_failed", result.Error, "outbox_id", outboxID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrWorkflowNotFound
	}
	return nil
}

func (r *Repository) MarkOutboxAttemptFailed(ctx context.Context, outboxID string, reason string, failedAt time.Time, dead bool) error {
	outboxID = strings.TrimSpace(outboxID)
	updates := map[string]any{
		"attempts":      gorm.Expr("attempts + 1"),
		"last_error":    reason,
		"attempted_at":  failedAt.UTC(),
		"claimed_until": nil,
	}
	if dead {
		updates["status"] = outbox.StatusDead
	}
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(updates)
	if result.Error != nil {
		return r.unavailable("approval_repo_mark_outbox_failed_failed", result.Error, "outbox_id", outboxID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrWorkflowNotFound
	}
	return nil
}

// Append implements ports.AuditSink. The entry id is the primary key, so
// relaying the same outbox row twice leaves a single audit row.
func (r *Repository) Append(ctx context.Context, entry ports.AuditEntry) error {
	entryID := strings.TrimSpace(entry.EntryID)
	if entryID == "" {
		return domainerrors.ErrInvalidInput
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return r.unavailable("approval_repo_audit_marshal_failed", err, "entry_id", entryID)
	}
	row := auditEntryModel{
		EntryID:    entryID,
		WorkflowID: strings.TrimSpace(entry.WorkflowID),
		Action:     entry.Action,
		Actor:      entry.Actor,
		Details:    details,
		OccurredAt: entry.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return r.unavailable("approval_repo_audit_append_failed", err, "entry_id", entryID)
	}
	return nil
}

// ListAuditEntries returns the audit trail of one workflow, oldest first.
func (r *Repository) ListAuditEntries(ctx context.Context, workflowID string) ([]ports.AuditEntry, error) {
	workflowID = strings.TrimSpace(workflowID)
	var rows []auditEntryModel
	if err := r.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.unavailable("approval_repo_list_audit_failed", err, "workflow_id", workflowID)
	}
	items := make([]ports.AuditEntry, 0, len(rows))
	for _, row := range rows {
		var details map[string]any
		if len(row.Details) > 0 {
			if err := json.Unmarshal(row.Details, &details); err != nil {
				return nil, r.unavailable("approval_repo_audit_decode_failed", err, "entry_id", row.EntryID)
			}
		}
		items = append(items, ports.AuditEntry{
			EntryID:    row.EntryID,
			WorkflowID: row.WorkflowID,
			Action:     row.Action,
			Actor:      row.Actor,
			Details:    details,
			OccurredAt: row.OccurredAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) loadApprovals(db *gorm.DB, workflowID string) ([]approvalModel, error) {
	var rows []approvalModel
	if err := db.Where("workflow_id = ?", workflowID).
		Order("slot ASC").
		Find(&rows).Error; err != nil {
		return nil, r.unavailable("approval_repo_load_votes_failed", err, "workflow_id", workflowID)
	}
	return rows, nil
}

func (r *Repository) unavailable(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "payout-approvals/approval-workflow",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("approval repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UUIDGenerator implements ports.IDGenerator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock implements ports.Clock using wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.WorkflowRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.AuditSink = (*Repository)(nil)
var _ ports.IDGenerator = UUIDGenerator{}
var _ ports.Clock = SystemClock{}
