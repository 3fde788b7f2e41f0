package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	queueservice "fundqueue/contexts/membership-queue/queue-service"
	queuememory "fundqueue/contexts/membership-queue/queue-service/adapters/memory"
	approvalworkflow "fundqueue/contexts/payout-approvals/approval-workflow"
	"fundqueue/internal/platform/metrics"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*Server
	queue     queueservice.Module
	approvals approvalworkflow.Module
}

func newTestServer() testServer {
	registry := metrics.New("test")
	store := queuememory.NewStore(nil)
	queue := queueservice.NewModule(queueservice.Dependencies{
		Members:         store,
		Profiles:        store,
		Ledger:          store,
		Clock:           store,
		PayoutThreshold: decimal.NewFromInt(100000),
		Observer:        registry,
	})
	queue.Store = store
	approvals := approvalworkflow.NewInMemoryModule(nil, nil)
	return testServer{
		Server:    New(queue, approvals, registry, nil, ":0"),
		queue:     queue,
		approvals: approvals,
	}
}

func (s testServer) do(t *testing.T, method string, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), rr.Body.String())
	return payload
}

func TestQueueMemberLifecycle(t *testing.T) {
	server := newTestServer()

	rr := server.do(t, http.MethodPost, "/queue/m-1", `{"is_eligible":true,"subscription_active":true,"total_months_subscribed":12,"lifetime_payment_total":"1200"}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = server.do(t, http.MethodPost, "/queue/m-1", `{}`, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "conflict", decodeBody(t, rr)["code"])

	rr = server.do(t, http.MethodPost, "/queue/m-2", `{"is_eligible":true,"subscription_active":true,"total_months_subscribed":3}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = server.do(t, http.MethodPost, "/queue/stats", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation_error", decodeBody(t, rr)["code"])

	rr = server.do(t, http.MethodPost, "/queue/recalculate", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decodeBody(t, rr)["total"])

	rr = server.do(t, http.MethodGet, "/queue", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	listed := decodeBody(t, rr)
	assert.EqualValues(t, 2, listed["total"])
	items := listed["items"].([]any)
	first := items[0].(map[string]any)
	assert.EqualValues(t, 1, first["queue_position"])
	assert.Equal(t, "Unknown member", first["name"])

	rr = server.do(t, http.MethodDelete, "/queue/m-2", "", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = server.do(t, http.MethodDelete, "/queue/m-2", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", decodeBody(t, rr)["code"])
}

func TestUpdateMemberRejectsUnknownFields(t *testing.T) {
	server := newTestServer()
	require.Equal(t, http.StatusCreated, server.do(t, http.MethodPost, "/queue/m-1", `{}`, nil).Code)

	rr := server.do(t, http.MethodPut, "/queue/m-1", `{"member_id":"m-9"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation_error", decodeBody(t, rr)["code"])

	rr = server.do(t, http.MethodPut, "/queue/m-1", `{"notes":"vip"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "vip", decodeBody(t, rr)["notes"])

	rr = server.do(t, http.MethodPut, "/queue/missing", `{"notes":"x"}`, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQueueReadsWhenStoreIsDown(t *testing.T) {
	server := newTestServer()
	server.queue.Store.SetMembersError(errors.New("connection refused"))

	rr := server.do(t, http.MethodGet, "/queue/stats", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeBody(t, rr)["degraded"])

	rr = server.do(t, http.MethodGet, "/queue/winners", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	payload := decodeBody(t, rr)
	assert.Equal(t, "data_unavailable", payload["code"])
	assert.NotContains(t, payload["message"], "connection refused")
}

func TestApprovalWorkflowOverHTTP(t *testing.T) {
	server := newTestServer()

	rr := server.do(t, http.MethodPost, "/payout-workflows", `{"payout_id":"p-1","user_id":"m-1","amount":"125000","required_approvals":2}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeBody(t, rr)
	workflowID := created["workflow_id"].(string)
	assert.Equal(t, "pending", created["status"])
	assert.EqualValues(t, 2, created["pending_approver_count"])

	approvals := "/payout-workflows/" + workflowID + "/approvals"

	rr = server.do(t, http.MethodPost, approvals, `{"decision":"approved"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = server.do(t, http.MethodPost, approvals, `{"decision":"undefined"}`, map[string]string{"X-Admin-Id": "a-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_decision", decodeBody(t, rr)["code"])

	rr = server.do(t, http.MethodPost, approvals, `{"decision":"approved"}`, map[string]string{"X-Admin-Id": "a-1"})
	require.Equal(t, http.StatusOK, rr.Code)
	first := decodeBody(t, rr)
	assert.Equal(t, false, first["transitioned"])
	assert.EqualValues(t, 1, first["workflow"].(map[string]any)["pending_approver_count"])

	rr = server.do(t, http.MethodPost, approvals, `{"decision":"approved"}`, map[string]string{"X-User-Id": "a-2"})
	require.Equal(t, http.StatusOK, rr.Code)
	second := decodeBody(t, rr)
	assert.Equal(t, true, second["transitioned"])
	assert.Equal(t, "approved", second["workflow"].(map[string]any)["status"])

	rr = server.do(t, http.MethodPost, approvals, `{"decision":"rejected","reason":"late"}`, map[string]string{"X-Admin-Id": "a-3"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "workflow_closed", decodeBody(t, rr)["code"])

	rr = server.do(t, http.MethodGet, "/payout-workflows/"+workflowID, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decodeBody(t, rr)["approved_count"])

	rr = server.do(t, http.MethodGet, "/payout-workflows/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateWorkflowConflictAndValidation(t *testing.T) {
	server := newTestServer()
	body := `{"payout_id":"p-1","user_id":"m-1","amount":"10","required_approvals":1}`
	require.Equal(t, http.StatusCreated, server.do(t, http.MethodPost, "/payout-workflows", body, nil).Code)

	rr := server.do(t, http.MethodPost, "/payout-workflows", body, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "conflict", decodeBody(t, rr)["code"])

	rr = server.do(t, http.MethodPost, "/payout-workflows", `{"payout_id":"p-2","user_id":"m-1","required_approvals":0}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = server.do(t, http.MethodPost, "/payout-workflows", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPlatformRoutes(t *testing.T) {
	server := newTestServer()

	rr := server.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))

	server.do(t, http.MethodPost, "/queue/recalculate", "", nil)
	rr = server.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "test_queue_recalculations_total 1"))

	rr = server.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/payout-workflows/{workflow_id}/approvals")
}
