package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	queuedomainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
	queuehttp "fundqueue/contexts/membership-queue/queue-service/transport/http"
)

func (s *Server) handleListQueue(w http.ResponseWriter, r *http.Request) {
	resp, err := s.queue.Handler.ListQueueHandler(r.Context())
	if err != nil {
		s.writeQueueDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req queuehttp.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeQueueError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON")
		return
	}
	resp, err := s.queue.Handler.AddMemberHandler(r.Context(), r.PathValue("member_id"), req)
	if err != nil {
		s.writeQueueDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req queuehttp.UpdateMemberRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeQueueError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON with writable member fields only")
		return
	}
	resp, err := s.queue.Handler.UpdateMemberHandler(r.Context(), r.PathValue("member_id"), req)
	if err != nil {
		s.writeQueueDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.queue.Handler.RemoveMemberHandler(r.Context(), r.PathValue("member_id")); err != nil {
		s.writeQueueDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.queue.Handler.RecalculateHandler(r.Context())
	if err != nil {
		s.writeQueueDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.queue.Handler.QueueStatsHandler(r.Context())
	if err != nil {
		s.writeQueueDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueueWinners(w http.ResponseWriter, r *http.Request) {
	resp, err := s.queue.Handler.WinnersHandler(r.Context())
	if err != nil {
		s.writeQueueDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeQueueDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, queuedomainerrors.ErrInvalidInput):
		writeQueueError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, queuedomainerrors.ErrMemberNotFound):
		writeQueueError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, queuedomainerrors.ErrDuplicateMember):
		writeQueueError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, queuedomainerrors.ErrDataUnavailable):
		s.logFailure(r, "http_queue_data_unavailable", err)
		writeQueueError(w, http.StatusServiceUnavailable, "data_unavailable", queuedomainerrors.ErrDataUnavailable.Error())
	case errors.Is(err, queuedomainerrors.ErrInvariantViolation):
		s.logFailure(r, "http_queue_invariant_violation", err)
		writeQueueError(w, http.StatusInternalServerError, "invariant_violation", queuedomainerrors.ErrInvariantViolation.Error())
	default:
		s.logFailure(r, "http_queue_internal_error", err)
		writeQueueError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeQueueError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, queuehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
