package response

import "github.com/craftedmarket/api/internal/domain"

// EventCapacity is attached to every lifecycle response so callers can
// render remaining capacity without a second query.
type EventCapacity struct {
	EventID             uint `json:"event_id"`
	CurrentParticipants int  `json:"current_participants"`
	MaxCapacity         *int `json:"max_capacity,omitempty"`
	RemainingCapacity   *int `json:"remaining_capacity,omitempty"`
}

func NewEventCapacity(event domain.Event) EventCapacity {
	return EventCapacity{
		EventID:             event.ID,
		CurrentParticipants: event.CurrentParticipants,
		MaxCapacity:         event.MaxCapacity,
		RemainingCapacity:   event.RemainingCapacity(),
	}
}

// Event is the detail view of an event, the domain entity plus the
// derived free-seat count.
type Event struct {
	domain.Event
	RemainingCapacity *int `json:"remaining_capacity,omitempty"`
}

func NewEvent(event domain.Event) Event {
	return Event{
		Event:             event,
		RemainingCapacity: event.RemainingCapacity(),
	}
}

type Registration struct {
	Registration domain.Registration `json:"registration"`
	Event        EventCapacity       `json:"event"`
}

func NewRegistration(registration domain.Registration, event domain.Event) Registration {
	return Registration{
		Registration: registration,
		Event:        NewEventCapacity(event),
	}
}

type Unregistration struct {
	Registration domain.Registration  `json:"registration"`
	Event        EventCapacity        `json:"event"`
	Promoted     *domain.Registration `json:"promoted,omitempty"`
}

func NewUnregistration(registration domain.Registration, event domain.Event, promoted *domain.Registration) Unregistration {
	return Unregistration{
		Registration: registration,
		Event:        NewEventCapacity(event),
		Promoted:     promoted,
	}
}
