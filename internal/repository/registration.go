package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound  = dao.ErrRegistrationNotFound
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
)

type RegistrationDAO interface {
	DB() *gorm.DB
	Insert(ctx context.Context, tx *gorm.DB, registration dao.Registration) (dao.Registration, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (dao.Registration, error)
	GetByEventAndVendor(ctx context.Context, tx *gorm.DB, eventID, vendorID uint) (dao.Registration, error)
	Update(ctx context.Context, tx *gorm.DB, registration dao.Registration) (dao.Registration, error)
	FirstWaitlisted(ctx context.Context, tx *gorm.DB, eventID uint) (dao.Registration, error)
	ListByEventID(ctx context.Context, eventID uint) ([]dao.Registration, error)
	ListByVendorID(ctx context.Context, vendorID uint) ([]dao.Registration, error)
}

type LockingEventDAO interface {
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (dao.Event, error)
	AddParticipants(ctx context.Context, tx *gorm.DB, eventID uint, delta int) error
}

// RegistrationRepository owns every write to the registration lifecycle.
// Each mutating method runs as one transaction that first locks the
// parent event row, so concurrent writers against the same event are
// serialized and the participant counter can never drift from the set
// of confirmed and attended registrations.
type RegistrationRepository struct {
	dao      RegistrationDAO
	eventDAO LockingEventDAO
	eRepo    *EventRepository
}

func NewRegistrationRepository(dao RegistrationDAO, eventDAO LockingEventDAO, eRepo *EventRepository) *RegistrationRepository {
	return &RegistrationRepository{
		dao:      dao,
		eventDAO: eventDAO,
		eRepo:    eRepo,
	}
}

func (r *RegistrationRepository) domainToDao(reg domain.Registration) dao.Registration {
	return dao.Registration{
		ID:           reg.ID,
		Reference:    reg.Reference,
		EventID:      reg.EventID,
		VendorID:     reg.VendorID,
		Status:       string(reg.Status),
		RegisteredAt: reg.RegisteredAt,
		Rating:       reg.Rating,
		Feedback:     reg.Feedback,
		Notes:        reg.Notes,
		CreatedAt:    reg.CreatedAt,
		UpdatedAt:    reg.UpdatedAt,
	}
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	return domain.Registration{
		ID:           reg.ID,
		Reference:    reg.Reference,
		EventID:      reg.EventID,
		VendorID:     reg.VendorID,
		Status:       domain.RegistrationStatus(reg.Status),
		RegisteredAt: reg.RegisteredAt,
		Rating:       reg.Rating,
		Feedback:     reg.Feedback,
		Notes:        reg.Notes,
		CreatedAt:    reg.CreatedAt,
		UpdatedAt:    reg.UpdatedAt,
	}
}

// Submit creates (or reopens) the vendor's registration for an event
// as pending. Pending applicants never touch the participant counter.
func (r *RegistrationRepository) Submit(ctx context.Context, eventID, vendorID uint, now time.Time) (domain.Registration, domain.Event, error) {
	var (
		savedRow dao.Registration
		eventRow dao.Event
	)

	err := r.dao.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		eventRow, err = r.eventDAO.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		event := r.eRepo.daoToDomain(eventRow)
		if err = event.AcceptsRegistrations(now); err != nil {
			return err
		}

		existing, err := r.dao.GetByEventAndVendor(ctx, tx, eventID, vendorID)
		switch {
		case err == nil:
			// One row per (event, vendor): only a cancelled row may be
			// reopened, any other status is a duplicate submission.
			if domain.RegistrationStatus(existing.Status) != domain.RegistrationStatusCancelled {
				return dao.ErrDuplicateRegistration
			}

			existing.Status = string(domain.RegistrationStatusPending)
			existing.RegisteredAt = now
			existing.Rating = nil
			existing.Feedback = ""
			existing.Notes = ""

			savedRow, err = r.dao.Update(ctx, tx, existing)
			return err

		case errors.Is(err, dao.ErrRegistrationNotFound):
			savedRow, err = r.dao.Insert(ctx, tx, dao.Registration{
				Reference:    uuid.NewString(),
				EventID:      eventID,
				VendorID:     vendorID,
				Status:       string(domain.RegistrationStatusPending),
				RegisteredAt: now,
			})
			return err

		default:
			return err
		}
	})
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("registration submit -> %w", err)
	}

	return r.daoToDomain(savedRow), r.eRepo.daoToDomain(eventRow), nil
}

// Approve confirms a pending registration. The capacity check and the
// counter increment happen under the event row lock, in the same
// transaction as the status write.
func (r *RegistrationRepository) Approve(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error) {
	var (
		savedRow dao.Registration
		eventRow dao.Event
	)

	err := r.dao.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.dao.GetByID(ctx, tx, registrationID)
		if err != nil {
			return err
		}

		eventRow, err = r.eventDAO.GetByIDForUpdate(ctx, tx, row.EventID)
		if err != nil {
			return err
		}

		// Reload under the lock; the status may have moved while we
		// waited for a concurrent writer to commit.
		row, err = r.dao.GetByID(ctx, tx, row.ID)
		if err != nil {
			return err
		}

		registration := r.daoToDomain(row)
		if err = registration.Approve(); err != nil {
			return err
		}

		event := r.eRepo.daoToDomain(eventRow)
		if !event.HasCapacity() {
			return domain.ErrCapacityExceeded
		}

		savedRow, err = r.dao.Update(ctx, tx, r.domainToDao(registration))
		if err != nil {
			return err
		}

		if err = r.eventDAO.AddParticipants(ctx, tx, eventRow.ID, 1); err != nil {
			return err
		}
		eventRow.CurrentParticipants++

		return nil
	})
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("registration approve -> %w", err)
	}

	return r.daoToDomain(savedRow), r.eRepo.daoToDomain(eventRow), nil
}

// Reject cancels a pending registration with an optional reason. No
// counter change: a pending registration never held a seat. The event
// lock is still taken so a racing approval cannot slip between the
// status read and the write.
func (r *RegistrationRepository) Reject(ctx context.Context, registrationID uint, reason string) (domain.Registration, domain.Event, error) {
	return r.transition(ctx, registrationID, func(registration *domain.Registration) error {
		return registration.Reject(reason)
	})
}

// MoveToWaitlist places a pending registration on the event's waitlist.
func (r *RegistrationRepository) MoveToWaitlist(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error) {
	return r.transition(ctx, registrationID, func(registration *domain.Registration) error {
		return registration.Waitlist()
	})
}

// transition applies a counter-neutral status change under the event
// row lock.
func (r *RegistrationRepository) transition(ctx context.Context, registrationID uint, apply func(*domain.Registration) error) (domain.Registration, domain.Event, error) {
	var (
		savedRow dao.Registration
		eventRow dao.Event
	)

	err := r.dao.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.dao.GetByID(ctx, tx, registrationID)
		if err != nil {
			return err
		}

		eventRow, err = r.eventDAO.GetByIDForUpdate(ctx, tx, row.EventID)
		if err != nil {
			return err
		}

		row, err = r.dao.GetByID(ctx, tx, row.ID)
		if err != nil {
			return err
		}

		registration := r.daoToDomain(row)
		if err = apply(&registration); err != nil {
			return err
		}

		savedRow, err = r.dao.Update(ctx, tx, r.domainToDao(registration))
		return err
	})
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("registration transition -> %w", err)
	}

	return r.daoToDomain(savedRow), r.eRepo.daoToDomain(eventRow), nil
}

// CancelOwn withdraws the vendor's registration before the event
// starts. When a confirmed seat is vacated the counter is decremented
// and the earliest-registered waitlisted vendor, if any, is promoted
// and re-increments it, all inside one transaction so the headcount
// invariant holds at every observable point.
func (r *RegistrationRepository) CancelOwn(ctx context.Context, eventID, vendorID uint, now time.Time) (domain.Registration, domain.Event, *domain.Registration, error) {
	var (
		savedRow    dao.Registration
		eventRow    dao.Event
		promotedRow *dao.Registration
	)

	err := r.dao.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		eventRow, err = r.eventDAO.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		row, err := r.dao.GetByEventAndVendor(ctx, tx, eventID, vendorID)
		if err != nil {
			return err
		}

		event := r.eRepo.daoToDomain(eventRow)
		if event.HasStarted(now) {
			return domain.ErrEventAlreadyStarted
		}

		registration := r.daoToDomain(row)
		heldSeat, err := registration.Cancel()
		if err != nil {
			return err
		}

		savedRow, err = r.dao.Update(ctx, tx, r.domainToDao(registration))
		if err != nil {
			return err
		}

		if !heldSeat {
			return nil
		}

		if err = r.eventDAO.AddParticipants(ctx, tx, eventRow.ID, -1); err != nil {
			return err
		}
		eventRow.CurrentParticipants--

		next, err := r.dao.FirstWaitlisted(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, dao.ErrNoWaitlistedCandidates) {
				return nil
			}
			return err
		}

		promoted := r.daoToDomain(next)
		if err = promoted.Promote(); err != nil {
			return err
		}

		saved, err := r.dao.Update(ctx, tx, r.domainToDao(promoted))
		if err != nil {
			return err
		}
		promotedRow = &saved

		if err = r.eventDAO.AddParticipants(ctx, tx, eventRow.ID, 1); err != nil {
			return err
		}
		eventRow.CurrentParticipants++

		return nil
	})
	if err != nil {
		return domain.Registration{}, domain.Event{}, nil, fmt.Errorf("registration cancel -> %w", err)
	}

	var promoted *domain.Registration
	if promotedRow != nil {
		p := r.daoToDomain(*promotedRow)
		promoted = &p
	}

	return r.daoToDomain(savedRow), r.eRepo.daoToDomain(eventRow), promoted, nil
}

// RecordFeedback stores the vendor's post-event rating and feedback and
// marks the registration attended. A registration that was not already
// occupying a seat starts doing so, which keeps the participant counter
// equal to the confirmed-or-attended count.
func (r *RegistrationRepository) RecordFeedback(ctx context.Context, eventID, vendorID uint, rating int, feedback string, now time.Time) (domain.Registration, domain.Event, error) {
	var (
		savedRow dao.Registration
		eventRow dao.Event
	)

	err := r.dao.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		eventRow, err = r.eventDAO.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		event := r.eRepo.daoToDomain(eventRow)
		if !event.HasEnded(now) {
			return domain.ErrEventNotEnded
		}

		row, err := r.dao.GetByEventAndVendor(ctx, tx, eventID, vendorID)
		if err != nil {
			return err
		}

		registration := r.daoToDomain(row)
		newlySeated, err := registration.RecordFeedback(rating, feedback)
		if err != nil {
			return err
		}

		savedRow, err = r.dao.Update(ctx, tx, r.domainToDao(registration))
		if err != nil {
			return err
		}

		if newlySeated {
			if err = r.eventDAO.AddParticipants(ctx, tx, eventRow.ID, 1); err != nil {
				return err
			}
			eventRow.CurrentParticipants++
		}

		return nil
	})
	if err != nil {
		return domain.Registration{}, domain.Event{}, fmt.Errorf("registration feedback -> %w", err)
	}

	return r.daoToDomain(savedRow), r.eRepo.daoToDomain(eventRow), nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id uint) (domain.Registration, error) {
	row, err := r.dao.GetByID(ctx, r.dao.DB(), id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(row), nil
}

func (r *RegistrationRepository) GetByEventAndVendor(ctx context.Context, eventID, vendorID uint) (domain.Registration, error) {
	row, err := r.dao.GetByEventAndVendor(ctx, r.dao.DB(), eventID, vendorID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.GetByEventAndVendor -> %w", err)
	}

	return r.daoToDomain(row), nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	rows, err := r.dao.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEventID -> %w", err)
	}

	return r.daosToDomain(rows), nil
}

func (r *RegistrationRepository) ListByVendor(ctx context.Context, vendorID uint) ([]domain.Registration, error) {
	rows, err := r.dao.ListByVendorID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByVendorID -> %w", err)
	}

	return r.daosToDomain(rows), nil
}

func (r *RegistrationRepository) daosToDomain(rows []dao.Registration) []domain.Registration {
	registrations := make([]domain.Registration, len(rows))
	for i, row := range rows {
		registrations[i] = r.daoToDomain(row)
	}

	return registrations
}
