package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	approvaldomainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	approvalhttp "fundqueue/contexts/payout-approvals/approval-workflow/transport/http"
)

func (s *Server) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req approvalhttp.CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApprovalError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON")
		return
	}
	resp, err := s.approvals.Handler.CreateWorkflowHandler(r.Context(), req)
	if err != nil {
		s.writeApprovalDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	resp, err := s.approvals.Handler.GetWorkflowHandler(r.Context(), r.PathValue("workflow_id"))
	if err != nil {
		s.writeApprovalDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitApproval(w http.ResponseWriter, r *http.Request) {
	adminID := resolveAdminID(r)
	if adminID == "" {
		writeApprovalError(w, http.StatusBadRequest, "validation_error", "X-Admin-Id header is required")
		return
	}

	var req approvalhttp.SubmitApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApprovalError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON")
		return
	}

	resp, err := s.approvals.Handler.SubmitApprovalHandler(
		r.Context(),
		r.PathValue("workflow_id"),
		adminID,
		req,
	)
	if err != nil {
		s.writeApprovalDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeApprovalDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, approvaldomainerrors.ErrInvalidInput):
		writeApprovalError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, approvaldomainerrors.ErrInvalidDecision):
		writeApprovalError(w, http.StatusUnprocessableEntity, "invalid_decision", err.Error())
	case errors.Is(err, approvaldomainerrors.ErrWorkflowNotFound):
		writeApprovalError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, approvaldomainerrors.ErrWorkflowConflict):
		writeApprovalError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, approvaldomainerrors.ErrWorkflowClosed):
		writeApprovalError(w, http.StatusConflict, "workflow_closed", err.Error())
	case errors.Is(err, approvaldomainerrors.ErrDataUnavailable):
		s.logFailure(r, "http_approval_data_unavailable", err)
		writeApprovalError(w, http.StatusServiceUnavailable, "data_unavailable", approvaldomainerrors.ErrDataUnavailable.Error())
	default:
		s.logFailure(r, "http_approval_internal_error", err)
		writeApprovalError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeApprovalError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, approvalhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func resolveAdminID(r *http.Request) string {
	if adminID := strings.TrimSpace(r.Header.Get("X-Admin-Id")); adminID != "" {
		return adminID
	}
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}
