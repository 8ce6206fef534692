package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Location    string `gorm:"not null"`
	Description string

	Status               string    `gorm:"not null;index"`
	StartDate            time.Time `gorm:"not null"`
	EndDate              time.Time `gorm:"not null"`
	RegistrationDeadline *time.Time

	MaxCapacity         *int
	CurrentParticipants int `gorm:"not null;default:0"`

	Registrations []Registration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) GetByID(ctx context.Context, id uint) (Event, error) {
	var event Event
	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// GetByIDForUpdate loads the event row under a row-level exclusive lock
// (SELECT ... FOR UPDATE). It serializes every writer that touches the
// participant counter of the same event, so the capacity check and the
// increment that follows it behave as one atomic unit.
func (d *EventDAO) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (Event, error) {
	var event Event
	result := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) ListByStatus(ctx context.Context, status string) ([]Event, error) {
	var events []Event
	result := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("start_date ASC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// AddParticipants shifts the participant counter by delta inside the
// caller's transaction. The caller must hold the row lock acquired via
// GetByIDForUpdate.
func (d *EventDAO) AddParticipants(ctx context.Context, tx *gorm.DB, eventID uint, delta int) error {
	return tx.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", eventID).
		UpdateColumn("current_participants", gorm.Expr("current_participants + ?", delta)).
		Error
}
