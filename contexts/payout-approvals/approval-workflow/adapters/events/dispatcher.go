package events

import (
	"context"
	"strings"

	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
	sharedevents "fundqueue/internal/shared/events"
)

// Publisher is the bus surface the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event sharedevents.Envelope) error
}

// BusDispatcher pushes workflow notifications onto the event bus, one topic
// per event type.
type BusDispatcher struct {
	Bus Publisher
}

func (d BusDispatcher) Push(ctx context.Context, event ports.EventEnvelope) error {
	return d.Bus.Publish(ctx, event.EventType, toSharedEnvelope(event))
}

func toSharedEnvelope(event ports.EventEnvelope) sharedevents.Envelope {
	correlationID := strings.TrimSpace(event.TraceID)
	if correlationID == "" {
		correlationID = event.EventID
	}
	return sharedevents.Envelope{
		EventID:        event.EventID,
		EventType:      event.EventType,
		SourceService:  event.SourceService,
		OccurredAtUTC:  event.OccurredAt.UTC(),
		CorrelationID:  correlationID,
		EntityType:     "payout_workflow",
		EntityID:       event.PartitionKey,
		PayloadVersion: event.SchemaVersion,
		Payload:        append([]byte(nil), event.Data...),
	}
}

var _ ports.NotificationDispatcher = BusDispatcher{}
