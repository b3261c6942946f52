package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stayhaven/internal/database"
	"stayhaven/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newPendingRequest() *domain.BookingRequest {
	return &domain.BookingRequest{
		ListingID:  5,
		GuestID:    100,
		HostID:     200,
		Status:     domain.BookingPending,
		CheckIn:    time.Now().Add(48 * time.Hour),
		CheckOut:   time.Now().Add(96 * time.Hour),
		GuestCount: 2,
		ExpiresAt:  time.Now().Add(domain.BookingRequestTTL),
	}
}

func TestCommitter_AllOrNothing(t *testing.T) {
	db := testDB(t)
	committer := NewCommitter(db)

	boom := errors.New("boom")
	b := NewBatch()
	b.Add(func(tx *gorm.DB) error {
		return tx.Create(&domain.Notification{UserID: 1, Type: domain.NotifBookingExpired, Title: "t"}).Error
	})
	b.Add(func(tx *gorm.DB) error {
		return boom
	})

	err := committer.Commit(context.Background(), b)
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCommitter_EmptyBatchIsNoop(t *testing.T) {
	committer := NewCommitter(testDB(t))

	assert.NoError(t, committer.Commit(context.Background(), NewBatch()))
	assert.NoError(t, committer.Commit(context.Background(), nil))
}

func TestStageTransition_GuardRejectsWrongPriorState(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRequestRepository(db)
	committer := NewCommitter(db)

	br := newPendingRequest()
	require.NoError(t, db.Create(br).Error)

	// First transition wins.
	b := NewBatch()
	repo.StageTransition(b, br.ID, domain.BookingPending, domain.BookingAccepted, nil)
	require.NoError(t, committer.Commit(context.Background(), b))

	// Second writer still believes the request is pending and must fail,
	// together with everything else staged in its batch.
	b = NewBatch()
	repo.StageTransition(b, br.ID, domain.BookingPending, domain.BookingDeclined, map[string]any{
		"decline_reason": "too late",
	})
	b.Add(func(tx *gorm.DB) error {
		return tx.Create(&domain.Notification{UserID: br.GuestID, Type: domain.NotifBookingDeclined, Title: "t"}).Error
	})

	err := committer.Commit(context.Background(), b)
	assert.ErrorIs(t, err, ErrNoRowsAffected)

	var got domain.BookingRequest
	require.NoError(t, db.First(&got, br.ID).Error)
	assert.Equal(t, domain.BookingAccepted, got.Status)
	assert.Empty(t, got.DeclineReason)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReservation_AtMostOncePerRequest(t *testing.T) {
	db := testDB(t)
	reservations := NewReservationRepository(db)
	committer := NewCommitter(db)

	br := newPendingRequest()
	require.NoError(t, db.Create(br).Error)

	makeReservation := func() *domain.Reservation {
		return &domain.Reservation{
			BookingRequestID: br.ID,
			ListingID:        br.ListingID,
			GuestID:          br.GuestID,
			HostID:           br.HostID,
			Status:           domain.ReservationConfirmed,
			CheckIn:          br.CheckIn,
			CheckOut:         br.CheckOut,
			GuestCount:       br.GuestCount,
			ConfirmedAt:      time.Now(),
		}
	}

	b := NewBatch()
	reservations.StageCreate(b, makeReservation())
	require.NoError(t, committer.Commit(context.Background(), b))

	b = NewBatch()
	reservations.StageCreate(b, makeReservation())
	assert.Error(t, committer.Commit(context.Background(), b))

	var count int64
	require.NoError(t, db.Model(&domain.Reservation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNotificationStageCreateFunc_BuildsAtCommitTime(t *testing.T) {
	db := testDB(t)
	bookings := NewBookingRequestRepository(db)
	notifications := NewNotificationRepository(db)
	committer := NewCommitter(db)

	br := newPendingRequest()

	b := NewBatch()
	bookings.StageCreate(b, br)
	notifications.StageCreateFunc(b, func() (*domain.Notification, error) {
		// By now the insert above has run and assigned the ID.
		n := &domain.Notification{
			UserID: br.HostID,
			Type:   domain.NotifBookingRequested,
			Title:  "New booking request",
		}
		if err := n.SetData(&domain.NotificationData{BookingID: &br.ID}); err != nil {
			return nil, err
		}
		return n, nil
	})

	require.NoError(t, committer.Commit(context.Background(), b))
	require.NotZero(t, br.ID)

	var n domain.Notification
	require.NoError(t, db.Where("type = ?", domain.NotifBookingRequested).First(&n).Error)
	assert.Contains(t, string(n.Data), `"booking_id"`)
}
