package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"fundqueue/contexts/membership-queue/queue-service/adapters/memory"
	"fundqueue/contexts/membership-queue/queue-service/application/commands"
	"fundqueue/contexts/membership-queue/queue-service/application/queries"
	httptransport "fundqueue/contexts/membership-queue/queue-service/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedHandler(store *memory.Store) (Handler, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return Handler{
		Members:     commands.MemberUseCase{Members: store, Clock: store},
		Recalculate: commands.RecalculateUseCase{Members: store},
		Queue:       queries.ListQueueUseCase{Members: store, Profiles: store},
		Logger:      logger,
	}, &buf
}

func loggedEvents(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	decoder := json.NewDecoder(buf)
	for decoder.More() {
		var record map[string]any
		require.NoError(t, decoder.Decode(&record))
		records = append(records, record)
	}
	return records
}

func TestHandlerLogsReceivedAndFailedRequests(t *testing.T) {
	store := memory.NewStore(nil)
	handler, buf := newLoggedHandler(store)
	ctx := context.Background()

	_, err := handler.AddMemberHandler(ctx, "m-1", httptransport.AddMemberRequest{})
	require.NoError(t, err)
	_, err = handler.AddMemberHandler(ctx, "m-1", httptransport.AddMemberRequest{})
	require.Error(t, err)

	records := loggedEvents(t, buf)
	require.Len(t, records, 3)
	for _, record := range records {
		assert.Equal(t, "membership-queue/queue-service", record["module"])
		assert.Equal(t, "transport", record["layer"])
		assert.Equal(t, "m-1", record["member_id"])
	}
	assert.Equal(t, "http_add_member_received", records[0]["event"])
	assert.Equal(t, "http_add_member_received", records[1]["event"])
	assert.Equal(t, "http_add_member_failed", records[2]["event"])
	assert.Equal(t, "ERROR", records[2]["level"])
	assert.NotEmpty(t, records[2]["error"])
}

func TestListQueueHandlerLogsStoreFailure(t *testing.T) {
	store := memory.NewStore(nil)
	store.SetMembersError(errors.New("connection refused"))
	handler, buf := newLoggedHandler(store)

	_, err := handler.ListQueueHandler(context.Background())
	require.Error(t, err)

	records := loggedEvents(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "http_list_queue_received", records[0]["event"])
	assert.Equal(t, "http_list_queue_failed", records[1]["event"])
}
