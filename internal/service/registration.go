package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/repository"
)

var (
	ErrEventNotFound         = repository.ErrEventNotFound
	ErrRegistrationNotFound  = repository.ErrRegistrationNotFound
	ErrDuplicateRegistration = repository.ErrDuplicateRegistration
	ErrNotAVendor            = errors.New("user has no vendor profile")

	ErrEventNotPublished   = domain.ErrEventNotPublished
	ErrDeadlinePassed      = domain.ErrDeadlinePassed
	ErrInvalidStatus       = domain.ErrInvalidStatus
	ErrCapacityExceeded    = domain.ErrCapacityExceeded
	ErrEventAlreadyStarted = domain.ErrEventAlreadyStarted
	ErrEventNotEnded       = domain.ErrEventNotEnded
	ErrInvalidRating       = domain.ErrInvalidRating
)

type RegistrationRepository interface {
	Submit(ctx context.Context, eventID, vendorID uint, now time.Time) (domain.Registration, domain.Event, error)
	Approve(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error)
	Reject(ctx context.Context, registrationID uint, reason string) (domain.Registration, domain.Event, error)
	MoveToWaitlist(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error)
	CancelOwn(ctx context.Context, eventID, vendorID uint, now time.Time) (domain.Registration, domain.Event, *domain.Registration, error)
	RecordFeedback(ctx context.Context, eventID, vendorID uint, rating int, feedback string, now time.Time) (domain.Registration, domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Registration, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
	ListByVendor(ctx context.Context, vendorID uint) ([]domain.Registration, error)
}

// RegistrationNotifier is the delivery collaborator. Implementations
// must be safe to call from their own goroutine; the lifecycle never
// waits on them.
type RegistrationNotifier interface {
	RegistrationSubmitted(ctx context.Context, registration domain.Registration)
	RegistrationConfirmed(ctx context.Context, registration domain.Registration)
	RegistrationCancelled(ctx context.Context, registration domain.Registration)
}

// RegistrationService orchestrates the registration lifecycle: submit,
// approve, reject, waitlist, unregister and post-event feedback. All
// capacity decisions are delegated to the repository, which makes them
// atomically against the store.
type RegistrationService struct {
	repo     RegistrationRepository
	userRepo UserRepository
	notifier RegistrationNotifier
	now      func() time.Time
}

func NewRegistrationService(repo RegistrationRepository, userRepo UserRepository, notifier RegistrationNotifier) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *RegistrationService) requireVendor(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.FindVendorByUserID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return ErrNotAVendor
		}
		return fmt.Errorf("s.userRepo.FindVendorByUserID -> %w", err)
	}

	return nil
}

// Submit applies the calling vendor to an event. The new registration
// is pending and does not occupy a capacity slot.
func (s *RegistrationService) Submit(ctx context.Context, eventID, userID uint) (domain.Registration, domain.Event, error) {
	if err := s.requireVendor(ctx, userID); err != nil {
		return domain.Registration{}, domain.Event{}, err
	}

	registration, event, err := s.repo.Submit(ctx, eventID, userID, s.now())
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("s.repo.Submit -> %w", err)
	}

	zap.L().Info("registration submitted",
		zap.Uint("registration_id", registration.ID),
		zap.Uint("event_id", eventID),
		zap.Uint("vendor_id", userID))

	go s.notifier.RegistrationSubmitted(context.WithoutCancel(ctx), registration)

	return registration, event, nil
}

// Approve confirms a pending registration if the event still has
// capacity. On a full event nothing is mutated and ErrCapacityExceeded
// is returned.
func (s *RegistrationService) Approve(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error) {
	registration, event, err := s.repo.Approve(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("s.repo.Approve -> %w", err)
	}

	zap.L().Info("registration approved",
		zap.Uint("registration_id", registration.ID),
		zap.Uint("event_id", registration.EventID),
		zap.Int("current_participants", event.CurrentParticipants))

	go s.notifier.RegistrationConfirmed(context.WithoutCancel(ctx), registration)

	return registration, event, nil
}

// Reject cancels a pending registration, optionally recording the
// admin's reason.
func (s *RegistrationService) Reject(ctx context.Context, registrationID uint, reason string) (domain.Registration, domain.Event, error) {
	registration, event, err := s.repo.Reject(ctx, registrationID, reason)
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("s.repo.Reject -> %w", err)
	}

	go s.notifier.RegistrationCancelled(context.WithoutCancel(ctx), registration)

	return registration, event, nil
}

// Waitlist parks a pending registration on the event's waitlist, the
// admin's alternative to rejecting when the event is full. Waitlisted
// vendors are promoted FIFO as confirmed seats free up.
func (s *RegistrationService) Waitlist(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error) {
	registration, event, err := s.repo.MoveToWaitlist(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("s.repo.MoveToWaitlist -> %w", err)
	}

	return registration, event, nil
}

// Unregister withdraws the calling vendor's registration before the
// event starts. Vacating a confirmed seat promotes the
// earliest-registered waitlisted vendor, if any.
func (s *RegistrationService) Unregister(ctx context.Context, eventID, userID uint) (domain.Registration, domain.Event, *domain.Registration, error) {
	if err := s.requireVendor(ctx, userID); err != nil {
		return domain.Registration{}, domain.Event{}, nil, err
	}

	registration, event, promoted, err := s.repo.CancelOwn(ctx, eventID, userID, s.now())
	if err != nil {
		return domain.Registration{}, domain.Event{}, nil, fmt.Errorf("s.repo.CancelOwn -> %w", err)
	}

	zap.L().Info("registration cancelled",
		zap.Uint("registration_id", registration.ID),
		zap.Uint("event_id", eventID),
		zap.Bool("promotion", promoted != nil))

	go s.notifier.RegistrationCancelled(context.WithoutCancel(ctx), registration)
	if promoted != nil {
		go s.notifier.RegistrationConfirmed(context.WithoutCancel(ctx), *promoted)
	}

	return registration, event, promoted, nil
}

// SubmitFeedback records the vendor's post-event rating and feedback,
// marking the registration attended. Resubmission overwrites.
func (s *RegistrationService) SubmitFeedback(ctx context.Context, eventID, userID uint, rating int, feedback string) (domain.Registration, domain.Event, error) {
	if err := s.requireVendor(ctx, userID); err != nil {
		return domain.Registration{}, domain.Event{}, err
	}

	registration, event, err := s.repo.RecordFeedback(ctx, eventID, userID, rating, feedback, s.now())
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("s.repo.RecordFeedback -> %w", err)
	}

	return registration, event, nil
}

func (s *RegistrationService) GetRegistration(ctx context.Context, id uint) (domain.Registration, error) {
	registration, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return registration, nil
}

func (s *RegistrationService) ListEventRegistrations(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	registrations, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return registrations, nil
}

func (s *RegistrationService) ListOwnRegistrations(ctx context.Context, userID uint) ([]domain.Registration, error) {
	registrations, err := s.repo.ListByVendor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByVendor -> %w", err)
	}

	return registrations, nil
}
