package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPending    RegistrationStatus = "pending"
	RegistrationStatusConfirmed  RegistrationStatus = "confirmed"
	RegistrationStatusWaitlisted RegistrationStatus = "waitlist"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
	RegistrationStatusAttended   RegistrationStatus = "attended"
)

// Terminal reports whether no further transition is permitted.
func (s RegistrationStatus) Terminal() bool {
	return s == RegistrationStatusCancelled || s == RegistrationStatusAttended
}

// Active reports whether the registration still participates in the
// lifecycle. Active registrations count toward the per-event uniqueness
// rule: a vendor may not hold two of them for the same event.
func (s RegistrationStatus) Active() bool {
	return s == RegistrationStatusPending ||
		s == RegistrationStatusConfirmed ||
		s == RegistrationStatusWaitlisted
}

// OccupiesSeat reports whether the registration counts toward the
// event's CurrentParticipants.
func (s RegistrationStatus) OccupiesSeat() bool {
	return s == RegistrationStatusConfirmed || s == RegistrationStatusAttended
}

// Registration is one vendor's application to one event. There is at
// most one row per (event, vendor) pair; the lifecycle transitions it
// in place rather than creating new rows.
type Registration struct {
	ID           uint               `json:"id"`
	Reference    string             `json:"reference"`
	EventID      uint               `json:"event_id"`
	VendorID     uint               `json:"vendor_id"`
	Status       RegistrationStatus `json:"status"`
	RegisteredAt time.Time          `json:"registered_at"`
	Rating       *int               `json:"rating,omitempty"`
	Feedback     string             `json:"feedback,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Approve moves a pending registration to confirmed. The caller is
// responsible for checking capacity and incrementing the participant
// counter in the same transaction.
func (r *Registration) Approve() error {
	if r.Status != RegistrationStatusPending {
		return ErrInvalidStatus
	}

	r.Status = RegistrationStatusConfirmed
	return nil
}

// Reject moves a pending registration to cancelled, optionally
// recording the admin's reason. A pending registration never held a
// seat, so no counter change is implied.
func (r *Registration) Reject(reason string) error {
	if r.Status != RegistrationStatusPending {
		return ErrInvalidStatus
	}

	r.Status = RegistrationStatusCancelled
	if reason != "" {
		r.Notes = reason
	}
	return nil
}

// Waitlist moves a pending registration onto the waitlist.
func (r *Registration) Waitlist() error {
	if r.Status != RegistrationStatusPending {
		return ErrInvalidStatus
	}

	r.Status = RegistrationStatusWaitlisted
	return nil
}

// Cancel withdraws any active registration. It returns whether the
// registration held a confirmed seat, which tells the caller a
// decrement (and possibly a waitlist promotion) is due.
func (r *Registration) Cancel() (heldSeat bool, err error) {
	if !r.Status.Active() {
		return false, ErrInvalidStatus
	}

	heldSeat = r.Status == RegistrationStatusConfirmed
	r.Status = RegistrationStatusCancelled
	return heldSeat, nil
}

// Promote moves a waitlisted registration to confirmed. Only the
// cancellation path invokes it, after a confirmed seat was vacated.
func (r *Registration) Promote() error {
	if r.Status != RegistrationStatusWaitlisted {
		return ErrInvalidStatus
	}

	r.Status = RegistrationStatusConfirmed
	return nil
}

// RecordFeedback marks the registration attended and stores the
// vendor's rating and feedback. Resubmission overwrites the previous
// values. It returns whether the registration newly started occupying
// a seat, so the caller can keep the participant counter consistent.
func (r *Registration) RecordFeedback(rating int, feedback string) (newlySeated bool, err error) {
	if rating < 1 || rating > 5 {
		return false, ErrInvalidRating
	}
	if r.Status == RegistrationStatusCancelled {
		return false, ErrInvalidStatus
	}

	newlySeated = !r.Status.OccupiesSeat()
	r.Status = RegistrationStatusAttended
	r.Rating = &rating
	r.Feedback = feedback
	return newlySeated, nil
}
