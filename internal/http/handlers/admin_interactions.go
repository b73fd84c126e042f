package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/atendeai/atende-platform/internal/interactions"
	"github.com/atendeai/atende-platform/pkg/logging"
)

// InteractionLister reads recent interaction log entries.
type InteractionLister interface {
	ListRecent(ctx context.Context, sessionID string, limit int) ([]interactions.Entry, error)
}

// AdminInteractionsHandler serves the admin interaction log listing.
type AdminInteractionsHandler struct {
	store  InteractionLister
	logger *logging.Logger
}

// NewAdminInteractionsHandler creates the handler.
func NewAdminInteractionsHandler(store InteractionLister, logger *logging.Logger) *AdminInteractionsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminInteractionsHandler{store: store, logger: logger}
}

// InteractionListItem is one log entry in list responses.
type InteractionListItem struct {
	ID           string `json:"id"`
	SessionID    string `json:"session_id"`
	Kind         string `json:"kind"`
	Intent       string `json:"intent,omitempty"`
	UserText     string `json:"user_text,omitempty"`
	ReplyText    string `json:"reply_text,omitempty"`
	Service      string `json:"service,omitempty"`
	ScheduledFor string `json:"scheduled_for,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// List handles GET /admin/interactions. Optional query params: session,
// limit.
func (h *AdminInteractionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	limit := parseLimit(r.URL.Query().Get("limit"), 50)

	entries, err := h.store.ListRecent(r.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("admin: failed to list interactions", "error", err)
		http.Error(w, "failed to list interactions", http.StatusInternalServerError)
		return
	}

	items := make([]InteractionListItem, 0, len(entries))
	for _, e := range entries {
		item := InteractionListItem{
			ID:        e.ID.String(),
			SessionID: e.SessionID,
			Kind:      e.Kind,
			Intent:    e.Intent,
			UserText:  e.UserText,
			ReplyText: e.ReplyText,
			Service:   e.Service,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.ScheduledFor != nil {
			item.ScheduledFor = e.ScheduledFor.Format(time.RFC3339)
		}
		items = append(items, item)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"interactions": items,
		"total":        len(items),
	})
}
