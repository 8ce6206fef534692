package domain

import "time"

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusOngoing,
		EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// Event is a platform-run event vendors register for. MaxCapacity nil
// means unlimited seats. CurrentParticipants counts registrations whose
// status is confirmed or attended, never anything else.
type Event struct {
	ID                   uint        `json:"id"`
	Name                 string      `json:"name"`
	Location             string      `json:"location"`
	Description          string      `json:"description"`
	Status               EventStatus `json:"status"`
	StartDate            time.Time   `json:"start_date"`
	EndDate              time.Time   `json:"end_date"`
	RegistrationDeadline *time.Time  `json:"registration_deadline,omitempty"`
	MaxCapacity          *int        `json:"max_capacity,omitempty"`
	CurrentParticipants  int         `json:"current_participants"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// HasCapacity reports whether one more registration can be confirmed.
// Callers deciding a confirmation must evaluate this on a row freshly
// locked inside the same transaction that performs the increment.
func (e *Event) HasCapacity() bool {
	return e.MaxCapacity == nil || e.CurrentParticipants < *e.MaxCapacity
}

// RemainingCapacity returns the number of free seats, or nil when the
// event is unlimited.
func (e *Event) RemainingCapacity() *int {
	if e.MaxCapacity == nil {
		return nil
	}

	remaining := *e.MaxCapacity - e.CurrentParticipants
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// AcceptsRegistrations checks that a new registration may be submitted
// at the given instant.
func (e *Event) AcceptsRegistrations(now time.Time) error {
	if e.Status != EventStatusPublished {
		return ErrEventNotPublished
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return ErrDeadlinePassed
	}

	return nil
}

func (e *Event) HasStarted(now time.Time) bool {
	return !now.Before(e.StartDate)
}

func (e *Event) HasEnded(now time.Time) bool {
	return !now.Before(e.EndDate)
}
