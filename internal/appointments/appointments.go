package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Status values an appointment row can hold.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Appointment is one booked slot.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Service   string    `json:"service"`
	Status    string    `json:"status"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
}
