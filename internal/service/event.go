package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/craftedmarket/api/internal/domain"
)

var ErrInvalidSchedule = errors.New("registration deadline must precede the event start")

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	ListPublished(ctx context.Context) ([]domain.Event, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	if !event.EndDate.After(event.StartDate) {
		return domain.Event{}, ErrInvalidSchedule
	}
	if event.RegistrationDeadline != nil && !event.RegistrationDeadline.Before(event.StartDate) {
		return domain.Event{}, ErrInvalidSchedule
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListPublishedEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPublished -> %w", err)
	}

	return events, nil
}
