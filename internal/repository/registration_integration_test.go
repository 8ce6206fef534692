package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		// Unit tests in this package still run; the integration tests
		// skip themselves when testDB is nil.
		log.Printf("docker is not available, skipping repository integration tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=craftedmarket_test",
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	_ = resource.Expire(300)

	dsn := fmt.Sprintf(
		"host=localhost port=%v user=postgres password=secret dbname=craftedmarket_test sslmode=disable",
		resource.GetPort("5432/tcp"),
	)

	if err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db
		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func newTestRepos(t *testing.T) (*RegistrationRepository, *EventRepository) {
	t.Helper()
	if testDB == nil {
		t.Skip("docker is not available")
	}

	eventDAO := dao.NewEventDAO(testDB)
	eRepo := NewEventRepository(eventDAO)
	repo := NewRegistrationRepository(dao.NewRegistrationDAO(testDB), eventDAO, eRepo)

	return repo, eRepo
}

func createTestEvent(t *testing.T, eRepo *EventRepository, maxCapacity *int, start, end time.Time) domain.Event {
	t.Helper()

	event, err := eRepo.Create(context.Background(), domain.Event{
		Name:        "Autumn Craft Fair",
		Location:    "Old Mill Yard",
		Status:      domain.EventStatusPublished,
		StartDate:   start,
		EndDate:     end,
		MaxCapacity: maxCapacity,
	})
	require.NoError(t, err)

	return event
}

func futureWindow() (time.Time, time.Time) {
	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	return start, start.Add(9 * time.Hour)
}

func TestSubmitAndApprove(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	start, end := futureWindow()
	capacity := 5
	event := createTestEvent(t, eRepo, &capacity, start, end)
	ctx := context.Background()

	registration, got, err := repo.Submit(ctx, event.ID, 101, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusPending, registration.Status)
	assert.NotEmpty(t, registration.Reference)
	assert.Equal(t, 0, got.CurrentParticipants, "pending must not occupy a seat")

	// Same vendor, same event: rejected regardless of timing.
	_, _, err = repo.Submit(ctx, event.ID, 101, time.Now().UTC())
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	approved, got, err := repo.Approve(ctx, registration.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusConfirmed, approved.Status)
	assert.Equal(t, 1, got.CurrentParticipants)

	// Approving twice is a status violation, not a counter change.
	_, _, err = repo.Approve(ctx, registration.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	fresh, err := eRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.CurrentParticipants)
}

func TestSubmitReopensCancelledRow(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	start, end := futureWindow()
	event := createTestEvent(t, eRepo, nil, start, end)
	ctx := context.Background()

	first, _, err := repo.Submit(ctx, event.ID, 201, time.Now().UTC())
	require.NoError(t, err)

	_, _, _, err = repo.CancelOwn(ctx, event.ID, 201, time.Now().UTC())
	require.NoError(t, err)

	reopened, _, err := repo.Submit(ctx, event.ID, 201, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, first.ID, reopened.ID, "the (event, vendor) row is reused")
	assert.Equal(t, domain.RegistrationStatusPending, reopened.Status)
	assert.Nil(t, reopened.Rating)
	assert.Empty(t, reopened.Notes)
}

func TestApproveFullEvent(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	start, end := futureWindow()
	capacity := 1
	event := createTestEvent(t, eRepo, &capacity, start, end)
	ctx := context.Background()

	seated, _, err := repo.Submit(ctx, event.ID, 301, time.Now().UTC())
	require.NoError(t, err)
	_, _, err = repo.Approve(ctx, seated.ID)
	require.NoError(t, err)

	overflow, _, err := repo.Submit(ctx, event.ID, 302, time.Now().UTC())
	require.NoError(t, err)

	_, _, err = repo.Approve(ctx, overflow.ID)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	// The failed approval must not have moved anything.
	unchanged, err := repo.GetByID(ctx, overflow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusPending, unchanged.Status)

	fresh, err := eRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.CurrentParticipants)
}

func TestCancelPromotesEarliestWaitlisted(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	start, end := futureWindow()
	capacity := 1
	event := createTestEvent(t, eRepo, &capacity, start, end)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)

	seated, _, err := repo.Submit(ctx, event.ID, 401, base)
	require.NoError(t, err)
	_, _, err = repo.Approve(ctx, seated.ID)
	require.NoError(t, err)

	// Two waitlisted vendors, the second registered first.
	late, _, err := repo.Submit(ctx, event.ID, 402, base.Add(2*time.Minute))
	require.NoError(t, err)
	early, _, err := repo.Submit(ctx, event.ID, 403, base.Add(time.Minute))
	require.NoError(t, err)

	_, _, err = repo.MoveToWaitlist(ctx, late.ID)
	require.NoError(t, err)
	_, _, err = repo.MoveToWaitlist(ctx, early.ID)
	require.NoError(t, err)

	cancelled, got, promoted, err := repo.CancelOwn(ctx, event.ID, 401, base.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusCancelled, cancelled.Status)

	require.NotNil(t, promoted, "vacating a confirmed seat promotes the waitlist")
	assert.Equal(t, early.ID, promoted.ID, "promotion is FIFO on registration date")
	assert.Equal(t, domain.RegistrationStatusConfirmed, promoted.Status)
	assert.Equal(t, 1, got.CurrentParticipants, "the freed seat is immediately reoccupied")

	stillWaiting, err := repo.GetByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusWaitlisted, stillWaiting.Status)
}

func TestCancelPendingNoPromotion(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	start, end := futureWindow()
	event := createTestEvent(t, eRepo, nil, start, end)
	ctx := context.Background()

	_, _, err := repo.Submit(ctx, event.ID, 501, time.Now().UTC())
	require.NoError(t, err)

	cancelled, got, promoted, err := repo.CancelOwn(ctx, event.ID, 501, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusCancelled, cancelled.Status)
	assert.Nil(t, promoted)
	assert.Equal(t, 0, got.CurrentParticipants)
}

func TestCancelAfterStart(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	start, end := futureWindow()
	event := createTestEvent(t, eRepo, nil, start, end)
	ctx := context.Background()

	_, _, err := repo.Submit(ctx, event.ID, 601, time.Now().UTC())
	require.NoError(t, err)

	_, _, _, err = repo.CancelOwn(ctx, event.ID, 601, start.Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrEventAlreadyStarted)
}

func TestRecordFeedback(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	// Published with the schedule already behind us; submission is
	// still open because no deadline is set.
	start := time.Now().UTC().Add(-48 * time.Hour)
	event := createTestEvent(t, eRepo, nil, start, start.Add(9*time.Hour))
	ctx := context.Background()

	_, _, err := repo.Submit(ctx, event.ID, 701, start.Add(-time.Hour))
	require.NoError(t, err)

	_, _, err = repo.RecordFeedback(ctx, event.ID, 701, 4, "steady sales all day", start.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrEventNotEnded)

	attended, got, err := repo.RecordFeedback(ctx, event.ID, 701, 4, "steady sales all day", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusAttended, attended.Status)
	require.NotNil(t, attended.Rating)
	assert.Equal(t, 4, *attended.Rating)
	assert.Equal(t, 1, got.CurrentParticipants, "attending from pending takes a seat")

	// Resubmission overwrites without touching the counter again.
	attended, got, err = repo.RecordFeedback(ctx, event.ID, 701, 2, "second thoughts", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, *attended.Rating)
	assert.Equal(t, 1, got.CurrentParticipants)
}

func TestConcurrentApprovalsRespectCapacity(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	start, end := futureWindow()
	capacity := 3
	event := createTestEvent(t, eRepo, &capacity, start, end)
	ctx := context.Background()

	const applicants = 8
	ids := make([]uint, 0, applicants)
	for i := 0; i < applicants; i++ {
		registration, _, err := repo.Submit(ctx, event.ID, uint(801+i), time.Now().UTC())
		require.NoError(t, err)
		ids = append(ids, registration.ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed int
		rejected  int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()

			_, _, err := repo.Approve(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				confirmed++
			case assert.ErrorIs(t, err, domain.ErrCapacityExceeded):
				rejected++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, capacity, confirmed)
	assert.Equal(t, applicants-capacity, rejected)

	fresh, err := eRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, fresh.CurrentParticipants, "the counter never exceeds capacity")

	rows, err := repo.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	seated := 0
	for _, row := range rows {
		if row.Status.OccupiesSeat() {
			seated++
		}
	}
	assert.Equal(t, fresh.CurrentParticipants, seated, "counter equals the seated registrations")
}

func TestSubmitDeadlineAndStatusGates(t *testing.T) {
	repo, eRepo := newTestRepos(t)
	ctx := context.Background()
	start, end := futureWindow()

	draft, err := eRepo.Create(ctx, domain.Event{
		Name:      "Unannounced Market",
		Location:  "TBD",
		Status:    domain.EventStatusDraft,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)

	_, _, err = repo.Submit(ctx, draft.ID, 901, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrEventNotPublished)

	deadline := time.Now().UTC().Add(-time.Hour)
	closed, err := eRepo.Create(ctx, domain.Event{
		Name:                 "Closed Market",
		Location:             "Main Square",
		Status:               domain.EventStatusPublished,
		StartDate:            start,
		EndDate:              end,
		RegistrationDeadline: &deadline,
	})
	require.NoError(t, err)

	_, _, err = repo.Submit(ctx, closed.ID, 901, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrDeadlinePassed)

	_, _, err = repo.Submit(ctx, 99999, 901, time.Now().UTC())
	assert.ErrorIs(t, err, ErrEventNotFound)
}
