package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftedmarket/api/internal/domain"
)

type mockEventRepo struct {
	createFn        func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByIDFn       func(ctx context.Context, id uint) (domain.Event, error)
	listPublishedFn func(ctx context.Context) ([]domain.Event, error)
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.createFn(ctx, event)
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockEventRepo) ListPublished(ctx context.Context) ([]domain.Event, error) {
	return m.listPublishedFn(ctx)
}

func sampleEvent() domain.Event {
	start := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	deadline := start.Add(-48 * time.Hour)
	capacity := 40

	return domain.Event{
		Name:                 "Spring Makers Market",
		Location:             "Riverside Hall",
		Status:               domain.EventStatusPublished,
		StartDate:            start,
		EndDate:              start.Add(9 * time.Hour),
		RegistrationDeadline: &deadline,
		MaxCapacity:          &capacity,
	}
}

func TestEventServiceCreateEvent(t *testing.T) {
	repo := &mockEventRepo{
		createFn: func(ctx context.Context, event domain.Event) (domain.Event, error) {
			event.ID = 1
			return event, nil
		},
	}
	svc := NewEventService(repo)

	created, err := svc.CreateEvent(context.Background(), sampleEvent())

	require.NoError(t, err)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Spring Makers Market", created.Name)
}

func TestEventServiceCreateEventBadSchedule(t *testing.T) {
	svc := NewEventService(&mockEventRepo{})

	endsBeforeStart := sampleEvent()
	endsBeforeStart.EndDate = endsBeforeStart.StartDate.Add(-time.Hour)

	_, err := svc.CreateEvent(context.Background(), endsBeforeStart)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	deadlineAfterStart := sampleEvent()
	late := deadlineAfterStart.StartDate.Add(time.Hour)
	deadlineAfterStart.RegistrationDeadline = &late

	_, err = svc.CreateEvent(context.Background(), deadlineAfterStart)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestEventServiceGetEvent(t *testing.T) {
	repo := &mockEventRepo{
		getByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return domain.Event{ID: id, Name: "Spring Makers Market"}, nil
		},
	}
	svc := NewEventService(repo)

	event, err := svc.GetEvent(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, uint(1), event.ID)
}

func TestEventServiceGetEventNotFound(t *testing.T) {
	repo := &mockEventRepo{
		getByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return domain.Event{}, ErrEventNotFound
		},
	}
	svc := NewEventService(repo)

	_, err := svc.GetEvent(context.Background(), 404)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventServiceListPublishedEvents(t *testing.T) {
	repo := &mockEventRepo{
		listPublishedFn: func(ctx context.Context) ([]domain.Event, error) {
			return []domain.Event{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := NewEventService(repo)

	events, err := svc.ListPublishedEvents(context.Background())

	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventServiceListPublishedEventsError(t *testing.T) {
	repo := &mockEventRepo{
		listPublishedFn: func(ctx context.Context) ([]domain.Event, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewEventService(repo)

	_, err := svc.ListPublishedEvents(context.Background())

	require.Error(t, err)
}
