package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, registry *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRegistryRecordsDomainEvents(t *testing.T) {
	registry := New("test")
	registry.QueueRecalculated(3, 4)
	registry.QueueRecalculated(0, 4)
	registry.WorkflowTransitioned("approved")
	registry.OutboxDelivery("audit", true)
	registry.OutboxDelivery("notification", false)

	body := scrape(t, registry)
	assert.Contains(t, body, "test_queue_recalculations_total 2")
	assert.Contains(t, body, "test_queue_positions_moved_total 3")
	assert.Contains(t, body, "test_queue_members 4")
	assert.Contains(t, body, `test_payout_workflow_transitions_total{status="approved"} 1`)
	assert.Contains(t, body, `test_approval_outbox_deliveries_total{channel="audit",outcome="delivered"} 1`)
	assert.Contains(t, body, `test_approval_outbox_deliveries_total{channel="notification",outcome="failed"} 1`)
}

func TestMiddlewareCountsStatusCodes(t *testing.T) {
	registry := New("test")
	handler := registry.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/queue/m-1", nil))

	body := scrape(t, registry)
	assert.Contains(t, body, `test_http_requests_total{code="418",method="POST"} 1`)
	assert.Contains(t, body, `test_http_request_duration_seconds_count{method="POST"} 1`)
}

func TestNilRegistryIsSafe(t *testing.T) {
	var registry *Registry
	assert.NotPanics(t, func() {
		registry.QueueRecalculated(1, 1)
		registry.WorkflowTransitioned("rejected")
		registry.OutboxDelivery("audit", true)
	})
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, registry.Middleware(next))
}
