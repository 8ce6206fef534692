package domain

import "errors"

var (
	// ErrInvalidStatus is returned by transition methods when the
	// registration's current status does not allow the requested move.
	ErrInvalidStatus = errors.New("registration status does not allow this transition")

	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrEventNotPublished   = errors.New("event is not open for registration")
	ErrDeadlinePassed      = errors.New("registration deadline has passed")
	ErrEventAlreadyStarted = errors.New("event has already started")
	ErrEventNotEnded       = errors.New("event has not ended yet")
	ErrCapacityExceeded    = errors.New("event has reached maximum capacity")
)
