package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationApprove(t *testing.T) {
	tests := []struct {
		name    string
		status  RegistrationStatus
		wantErr error
	}{
		{name: "pending is approvable", status: RegistrationStatusPending},
		{name: "confirmed is not", status: RegistrationStatusConfirmed, wantErr: ErrInvalidStatus},
		{name: "waitlisted is not", status: RegistrationStatusWaitlisted, wantErr: ErrInvalidStatus},
		{name: "cancelled is not", status: RegistrationStatusCancelled, wantErr: ErrInvalidStatus},
		{name: "attended is not", status: RegistrationStatusAttended, wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Registration{Status: tt.status}

			err := r.Approve()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, r.Status, "failed transition must not mutate")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, RegistrationStatusConfirmed, r.Status)
		})
	}
}

func TestRegistrationReject(t *testing.T) {
	r := Registration{Status: RegistrationStatusPending}

	err := r.Reject("booth requirements not met")

	require.NoError(t, err)
	assert.Equal(t, RegistrationStatusCancelled, r.Status)
	assert.Equal(t, "booth requirements not met", r.Notes)
}

func TestRegistrationRejectKeepsNotesWithoutReason(t *testing.T) {
	r := Registration{Status: RegistrationStatusPending, Notes: "submitted late"}

	err := r.Reject("")

	require.NoError(t, err)
	assert.Equal(t, "submitted late", r.Notes)
}

func TestRegistrationRejectNonPending(t *testing.T) {
	for _, status := range []RegistrationStatus{
		RegistrationStatusConfirmed,
		RegistrationStatusWaitlisted,
		RegistrationStatusCancelled,
		RegistrationStatusAttended,
	} {
		r := Registration{Status: status}

		err := r.Reject("too late")

		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Equal(t, status, r.Status)
	}
}

func TestRegistrationWaitlist(t *testing.T) {
	r := Registration{Status: RegistrationStatusPending}

	require.NoError(t, r.Waitlist())
	assert.Equal(t, RegistrationStatusWaitlisted, r.Status)

	assert.ErrorIs(t, r.Waitlist(), ErrInvalidStatus)
}

func TestRegistrationCancel(t *testing.T) {
	tests := []struct {
		name         string
		status       RegistrationStatus
		wantHeldSeat bool
		wantErr      error
	}{
		{name: "pending never held a seat", status: RegistrationStatusPending},
		{name: "confirmed vacates a seat", status: RegistrationStatusConfirmed, wantHeldSeat: true},
		{name: "waitlisted never held a seat", status: RegistrationStatusWaitlisted},
		{name: "cancelled is terminal", status: RegistrationStatusCancelled, wantErr: ErrInvalidStatus},
		{name: "attended is terminal", status: RegistrationStatusAttended, wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Registration{Status: tt.status}

			heldSeat, err := r.Cancel()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, r.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHeldSeat, heldSeat)
			assert.Equal(t, RegistrationStatusCancelled, r.Status)
		})
	}
}

func TestRegistrationPromote(t *testing.T) {
	r := Registration{Status: RegistrationStatusWaitlisted}

	require.NoError(t, r.Promote())
	assert.Equal(t, RegistrationStatusConfirmed, r.Status)

	pending := Registration{Status: RegistrationStatusPending}
	assert.ErrorIs(t, pending.Promote(), ErrInvalidStatus)
}

func TestRegistrationRecordFeedback(t *testing.T) {
	tests := []struct {
		name            string
		status          RegistrationStatus
		rating          int
		wantNewlySeated bool
		wantErr         error
	}{
		{name: "confirmed already held a seat", status: RegistrationStatusConfirmed, rating: 4},
		{name: "pending newly occupies a seat", status: RegistrationStatusPending, rating: 5, wantNewlySeated: true},
		{name: "waitlisted newly occupies a seat", status: RegistrationStatusWaitlisted, rating: 3, wantNewlySeated: true},
		{name: "attended overwrites in place", status: RegistrationStatusAttended, rating: 2},
		{name: "cancelled cannot attend", status: RegistrationStatusCancelled, rating: 4, wantErr: ErrInvalidStatus},
		{name: "rating below range", status: RegistrationStatusConfirmed, rating: 0, wantErr: ErrInvalidRating},
		{name: "rating above range", status: RegistrationStatusConfirmed, rating: 6, wantErr: ErrInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Registration{Status: tt.status}

			newlySeated, err := r.RecordFeedback(tt.rating, "great footfall")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, r.Status)
				assert.Nil(t, r.Rating)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNewlySeated, newlySeated)
			assert.Equal(t, RegistrationStatusAttended, r.Status)
			require.NotNil(t, r.Rating)
			assert.Equal(t, tt.rating, *r.Rating)
			assert.Equal(t, "great footfall", r.Feedback)
		})
	}
}

func TestRegistrationStatusPredicates(t *testing.T) {
	assert.True(t, RegistrationStatusPending.Active())
	assert.True(t, RegistrationStatusConfirmed.Active())
	assert.True(t, RegistrationStatusWaitlisted.Active())
	assert.False(t, RegistrationStatusCancelled.Active())
	assert.False(t, RegistrationStatusAttended.Active())

	assert.True(t, RegistrationStatusConfirmed.OccupiesSeat())
	assert.True(t, RegistrationStatusAttended.OccupiesSeat())
	assert.False(t, RegistrationStatusPending.OccupiesSeat())
	assert.False(t, RegistrationStatusWaitlisted.OccupiesSeat())

	assert.True(t, RegistrationStatusCancelled.Terminal())
	assert.True(t, RegistrationStatusAttended.Terminal())
	assert.False(t, RegistrationStatusPending.Terminal())
}
