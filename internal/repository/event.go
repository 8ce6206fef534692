package repository

import (
	"context"
	"fmt"

	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	GetByID(ctx context.Context, id uint) (dao.Event, error)
	ListByStatus(ctx context.Context, status string) ([]dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:                   e.ID,
		Name:                 e.Name,
		Location:             e.Location,
		Description:          e.Description,
		Status:               string(e.Status),
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		RegistrationDeadline: e.RegistrationDeadline,
		MaxCapacity:          e.MaxCapacity,
		CurrentParticipants:  e.CurrentParticipants,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:                   e.ID,
		Name:                 e.Name,
		Location:             e.Location,
		Description:          e.Description,
		Status:               domain.EventStatus(e.Status),
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		RegistrationDeadline: e.RegistrationDeadline,
		MaxCapacity:          e.MaxCapacity,
		CurrentParticipants:  e.CurrentParticipants,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) ListPublished(ctx context.Context) ([]domain.Event, error) {
	eventsDAO, err := r.dao.ListByStatus(ctx, string(domain.EventStatusPublished))
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByStatus -> %w", err)
	}

	events := make([]domain.Event, len(eventsDAO))
	for i, eventDAO := range eventsDAO {
		events[i] = r.daoToDomain(eventDAO)
	}

	return events, nil
}
