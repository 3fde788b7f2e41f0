package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
	sharedevents "fundqueue/internal/shared/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topics []string
	events []sharedevents.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event sharedevents.Envelope) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestBusDispatcherTranslatesEnvelope(t *testing.T) {
	publisher := &recordingPublisher{}
	dispatcher := BusDispatcher{Bus: publisher}
	occurredAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	err := dispatcher.Push(context.Background(), ports.EventEnvelope{
		EventID:       "wf-1:approved:notification",
		EventType:     "payout.approval_workflow.approved",
		SourceService: "approval-workflow",
		OccurredAt:    occurredAt,
		SchemaVersion: 1,
		PartitionKey:  "wf-1",
		Data:          json.RawMessage(`{"payout_id":"p-1"}`),
	})
	require.NoError(t, err)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, []string{"payout.approval_workflow.approved"}, publisher.topics)

	event := publisher.events[0]
	assert.Equal(t, "wf-1:approved:notification", event.CorrelationID)
	assert.Equal(t, "payout_workflow", event.EntityType)
	assert.Equal(t, "wf-1", event.EntityID)
	assert.Equal(t, occurredAt, event.OccurredAtUTC)
	assert.JSONEq(t, `{"payout_id":"p-1"}`, string(event.Payload))
}

func TestBackoffRetrierRetriesTransientFailures(t *testing.T) {
	retrier := BackoffRetrier{InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, MaxRetries: 4}
	calls := 0
	err := retrier.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("broker timeout")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoffRetrierGivesUp(t *testing.T) {
	retrier := BackoffRetrier{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, MaxRetries: 2}
	calls := 0
	err := retrier.Retry(context.Background(), func() error {
		calls++
		return errors.New("broker down")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoffRetrierStopsOnPermanentFailure(t *testing.T) {
	retrier := BackoffRetrier{InitialInterval: time.Millisecond, MaxRetries: 5}
	calls := 0
	err := retrier.Retry(context.Background(), func() error {
		calls++
		return fmt.Errorf("%w: bad json", domainerrors.ErrOutboxDecode)
	})
	assert.ErrorIs(t, err, domainerrors.ErrOutboxDecode)
	assert.Equal(t, 1, calls)
}
