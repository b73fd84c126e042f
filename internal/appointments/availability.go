package appointments

import (
	"context"
	"fmt"
	"time"
)

// BookedLister reads the taken slot starts for a calendar day.
type BookedLister interface {
	BookedTimes(ctx context.Context, date time.Time) ([]string, error)
}

// Availability derives the bookable "HH:MM" slots for a day: a fixed grid
// from opening to closing, minus slots already confirmed. The service name
// does not affect the grid; the salon runs one chair per slot.
type Availability struct {
	booked  BookedLister
	opening int // minutes from midnight
	closing int
	step    time.Duration
}

// NewAvailability builds the slot grid. opening and closing are "HH:MM"
// strings; step is the slot width.
func NewAvailability(booked BookedLister, opening, closing string, step time.Duration) (*Availability, error) {
	open, err := parseMinutes(opening)
	if err != nil {
		return nil, fmt.Errorf("appointments: invalid opening time: %w", err)
	}
	closeAt, err := parseMinutes(closing)
	if err != nil {
		return nil, fmt.Errorf("appointments: invalid closing time: %w", err)
	}
	if closeAt <= open {
		return nil, fmt.Errorf("appointments: closing %q not after opening %q", closing, opening)
	}
	if step <= 0 {
		step = time.Hour
	}
	return &Availability{
		booked:  booked,
		opening: open,
		closing: closeAt,
		step:    step,
	}, nil
}

// BookableTimes returns the open "HH:MM" slots for a date in grid order.
func (a *Availability) BookableTimes(ctx context.Context, _ string, date time.Time) ([]string, error) {
	taken := map[string]bool{}
	if a.booked != nil {
		booked, err := a.booked.BookedTimes(ctx, date)
		if err != nil {
			return nil, err
		}
		for _, t := range booked {
			taken[t] = true
		}
	}

	stepMin := int(a.step.Minutes())
	var slots []string
	for m := a.opening; m+stepMin <= a.closing; m += stepMin {
		slot := fmt.Sprintf("%02d:%02d", m/60, m%60)
		if !taken[slot] {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func parseMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
