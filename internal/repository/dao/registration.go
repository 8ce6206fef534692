package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrDuplicateRegistration  = errors.New("vendor already registered for this event")
	ErrNoWaitlistedCandidates = errors.New("no waitlisted registrations for this event")
)

type Registration struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"uniqueIndex;not null"`

	EventID  uint  `gorm:"not null;uniqueIndex:idx_registrations_event_vendor"`
	Event    Event `gorm:"foreignKey:EventID"`
	VendorID uint  `gorm:"not null;uniqueIndex:idx_registrations_event_vendor"`

	Status       string    `gorm:"not null;index"`
	RegisteredAt time.Time `gorm:"not null;index"`

	Rating   *int
	Feedback string
	Notes    string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// DB exposes the handle so the repository can open transactions that
// span event and registration rows.
func (d *RegistrationDAO) DB() *gorm.DB {
	return d.db
}

func (d *RegistrationDAO) Insert(ctx context.Context, tx *gorm.DB, registration Registration) (Registration, error) {
	result := tx.WithContext(ctx).Create(&registration)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Registration{}, ErrDuplicateRegistration
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) GetByID(ctx context.Context, tx *gorm.DB, id uint) (Registration, error) {
	var registration Registration
	result := tx.WithContext(ctx).First(&registration, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) GetByEventAndVendor(ctx context.Context, tx *gorm.DB, eventID, vendorID uint) (Registration, error) {
	var registration Registration
	result := tx.WithContext(ctx).
		Where("event_id = ? AND vendor_id = ?", eventID, vendorID).
		First(&registration)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) Update(ctx context.Context, tx *gorm.DB, registration Registration) (Registration, error) {
	result := tx.WithContext(ctx).Save(&registration)
	if result.Error != nil {
		return Registration{}, result.Error
	}

	return registration, nil
}

// FirstWaitlisted returns the event's waitlisted registration with the
// earliest registration date. Promotion is strictly FIFO on that key.
func (d *RegistrationDAO) FirstWaitlisted(ctx context.Context, tx *gorm.DB, eventID uint) (Registration, error) {
	var registration Registration
	result := tx.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, "waitlist").
		Order("registered_at ASC").
		First(&registration)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrNoWaitlistedCandidates
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) ListByEventID(ctx context.Context, eventID uint) ([]Registration, error) {
	var registrations []Registration
	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) ListByVendorID(ctx context.Context, vendorID uint) ([]Registration, error) {
	var registrations []Registration
	result := d.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("registered_at DESC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}
