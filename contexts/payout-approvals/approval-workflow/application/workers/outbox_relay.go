package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "fundqueue/contexts/payout-approvals/approval-workflow/application"
	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
)

// OutboxRelay delivers committed outbox rows to the notification dispatcher
// and the audit sink. Rows are marked delivered only after the downstream
// call succeeds, so every row is delivered at least once.
type OutboxRelay struct {
	Outbox        ports.OutboxRepository
	Notifications ports.NotificationDispatcher
	Audit         ports.AuditSink
	Retrier       ports.Retrier
	Clock         ports.Clock
	Observer      ports.Observer
	BatchSize     int
	// MaxAttempts bounds relay cycles per row before it is parked as dead.
	// Zero keeps retrying forever.
	MaxAttempts int
	// ClaimTTL is how long a claimed row stays hidden from other relays.
	// It must outlast one delivery including retries. Defaults to a minute.
	ClaimTTL time.Duration
	Logger   *slog.Logger
}

const defaultClaimTTL = time.Minute

type RelayReport struct {
	Delivered int
	Failed    int
}

// RunOnce claims and relays one batch. A failing row is recorded and
// skipped so it cannot block the rows behind it.
func (r OutboxRelay) RunOnce(ctx context.Context) (RelayReport, error) {
	logger := application.ResolveLogger(r.Logger)
	observer := application.ResolveObserver(r.Observer)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	lease := r.ClaimTTL
	if lease <= 0 {
		lease = defaultClaimTTL
	}

	pending, err := r.Outbox.ClaimPendingOutbox(ctx, limit, r.now(), lease)
	if err != nil {
		logger.Error("approval outbox claim failed",
			"event", "approval_outbox_claim_failed",
			"module", "payout-approvals/approval-workflow",
			"layer", "worker",
			"error", err.Error(),
		)
		return RelayReport{}, err
	}
	if len(pending) == 0 {
		logger.Debug("approval outbox relay found no pending rows",
			"event", "approval_outbox_relay_noop",
			"module", "payout-approvals/approval-workflow",
			"layer", "worker",
			"batch_size", limit,
		)
		return RelayReport{}, nil
	}

	var report RelayReport
	for _, row := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		deliverErr := r.retry(ctx, func() error {
			return r.deliver(ctx, row)
		})
		now := r.now()
		if deliverErr != nil {
			report.Failed++
			observer.OutboxDelivery(row.Channel, false)
			dead := r.MaxAttempts > 0 && row.Attempts+1 >= r.MaxAttempts
			logger.Error("approval outbox delivery failed",
				"event", "approval_outbox_delivery_failed",
				"module", "payout-approvals/approval-workflow",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"channel", row.Channel,
				"attempts", row.Attempts+1,
				"dead", dead,
				"error", deliverErr.Error(),
			)
			if err := r.Outbox.MarkOutboxAttemptFailed(ctx, row.OutboxID, deliverErr.Error(), now, dead); err != nil {
				return report, err
			}
			continue
		}
		if err := r.Outbox.MarkOutboxDelivered(ctx, row.OutboxID, now); err != nil {
			logger.Error("approval outbox mark delivered failed",
				"event", "approval_outbox_mark_delivered_failed",
				"module", "payout-approvals/approval-workflow",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return report, err
		}
		report.Delivered++
		observer.OutboxDelivery(row.Channel, true)
	}

	logger.Info("approval outbox relay cycle completed",
		"event", "approval_outbox_relay_completed",
		"module", "payout-approvals/approval-workflow",
		"layer", "worker",
		"delivered_count", report.Delivered,
		"failed_count", report.Failed,
	)
	return report, nil
}

// Run polls until ctx is cancelled.
func (r OutboxRelay) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			application.ResolveLogger(r.Logger).Warn("approval outbox relay cycle aborted",
				"event", "approval_outbox_relay_aborted",
				"module", "payout-approvals/approval-workflow",
				"layer", "worker",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r OutboxRelay) deliver(ctx context.Context, row ports.OutboxMessage) error {
	var envelope ports.EventEnvelope
	if err := json.Unmarshal(row.Payload, &envelope); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrOutboxDecode, err)
	}
	channel := envelope.Channel
	if channel == "" {
		channel = row.Channel
	}
	switch channel {
	case ports.ChannelNotification:
		return r.Notifications.Push(ctx, envelope)
	case ports.ChannelAudit:
		var entry ports.AuditEntry
		if err := json.Unmarshal(envelope.Data, &entry); err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrOutboxDecode, err)
		}
		if entry.EntryID == "" {
			entry.EntryID = envelope.EventID
		}
		return r.Audit.Append(ctx, entry)
	default:
		return fmt.Errorf("%w: %q", domainerrors.ErrUnknownChannel, channel)
	}
}

func (r OutboxRelay) retry(ctx context.Context, op func() error) error {
	if r.Retrier == nil {
		return op()
	}
	return r.Retrier.Retry(ctx, op)
}

func (r OutboxRelay) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now().UTC()
}
