package bootstrap

import (
	"context"
	"log/slog"
	"testing"
	"time"

	approvalcommands "fundqueue/contexts/payout-approvals/approval-workflow/application/commands"
	"fundqueue/internal/platform/config"
	"fundqueue/internal/shared/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":8080", normalizeAddr(""))
	assert.Equal(t, ":9090", normalizeAddr("9090"))
	assert.Equal(t, ":9090", normalizeAddr(" :9090 "))
}

func TestBuildWorkerRequiresPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("POSTGRES_DSN", "")
	_, err := BuildWorker()
	require.Error(t, err)
}

func TestMemoryWiringRelaysNotificationsToBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	parts, err := build(config.Config{
		StorageDriver:     config.StorageMemory,
		KafkaBrokers:      []string{"localhost:9092"},
		MetricsEnabled:    true,
		PayoutThreshold:   decimal.NewFromInt(100000),
		OutboxBatchSize:   10,
		EnrichConcurrency: 2,
	}, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, parts.queue.Store)
	require.NotNil(t, parts.approvals.Store)

	received := make(chan events.Envelope, 1)
	parts.bus.Subscribe(ctx, approvalcommands.EventPayoutApproved, "bootstrap-test", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})

	usecase := parts.approvals.Handler.Workflows
	workflow, err := usecase.CreateWorkflow(ctx, approvalcommands.CreateWorkflowCommand{
		PayoutID:          "payout-1",
		UserID:            "member-1",
		Amount:            decimal.NewFromInt(125000),
		RequiredApprovals: 1,
	})
	require.NoError(t, err)
	result, err := usecase.SubmitApproval(ctx, approvalcommands.SubmitApprovalCommand{
		WorkflowID: workflow.WorkflowID,
		AdminID:    "admin-1",
		Decision:   "approved",
	})
	require.NoError(t, err)
	require.True(t, result.Transitioned)

	report, err := parts.approvals.Relay.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Delivered)

	select {
	case event := <-received:
		assert.Equal(t, workflow.WorkflowID+":approved:notification", event.EventID)
		assert.Equal(t, workflow.WorkflowID, event.EntityID)
	case <-time.After(time.Second):
		t.Fatal("notification was not published to the bus")
	}
	assert.Len(t, parts.approvals.Store.AuditEntries(), 1)
}
