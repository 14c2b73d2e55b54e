// internal/handler/event_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// EventHandler exposes the audit trail recorded from change events
type EventHandler struct {
	Repo repository.AuditRepositoryInterface
}

// NewEventHandler creates a new EventHandler with the given repository
func NewEventHandler(repo repository.AuditRepositoryInterface) *EventHandler {
	return &EventHandler{Repo: repo}
}

// ListCustomerEventsHandler returns the most recent events for a customer, newest first
func (h *EventHandler) ListCustomerEventsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer id"})
		return
	}

	limit := defaultEventLimit
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = min(l, maxEventLimit)
	}

	events, err := h.Repo.ListByCustomer(r.Context(), id, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to fetch record events", zap.Int("customer_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if events == nil {
		events = []model.RecordEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "success",
		"data":    events,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
