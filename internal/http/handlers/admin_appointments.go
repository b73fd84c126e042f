package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/atendeai/atende-platform/internal/appointments"
	"github.com/atendeai/atende-platform/pkg/logging"
)

// AppointmentLister reads recent appointments for the admin view.
type AppointmentLister interface {
	ListRecent(ctx context.Context, limit int) ([]appointments.Appointment, error)
}

// AdminAppointmentsHandler serves the admin appointments listing.
type AdminAppointmentsHandler struct {
	repo   AppointmentLister
	logger *logging.Logger
}

// NewAdminAppointmentsHandler creates the handler.
func NewAdminAppointmentsHandler(repo AppointmentLister, logger *logging.Logger) *AdminAppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAppointmentsHandler{repo: repo, logger: logger}
}

// AppointmentListItem is one appointment in list responses.
type AppointmentListItem struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Service   string `json:"service"`
	Status    string `json:"status"`
	StartsAt  string `json:"starts_at"`
	CreatedAt string `json:"created_at"`
}

// List handles GET /admin/appointments.
func (h *AdminAppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 50)

	appts, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("admin: failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	items := make([]AppointmentListItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, AppointmentListItem{
			ID:        a.ID.String(),
			SessionID: a.SessionID,
			Service:   a.Service,
			Status:    a.Status,
			StartsAt:  a.StartsAt.Format(time.RFC3339),
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"appointments": items,
		"total":        len(items),
	})
}

func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 500 {
		return fallback
	}
	return limit
}
