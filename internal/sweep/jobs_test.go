package sweep

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stayhaven/internal/database"
	"stayhaven/internal/domain"
	"stayhaven/internal/modules/booking"
	"stayhaven/internal/modules/notification"
	"stayhaven/internal/repository"
)

type stubBlobDeleter struct {
	deleted []string
	err     error
}

func (s *stubBlobDeleter) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.err
}

func testJobs(t *testing.T, blobs blobDeleter) (*Jobs, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	bookingRepo := repository.NewBookingRequestRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	listingRepo := repository.NewListingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	deletionRepo := repository.NewScheduledDeletionRepository(db)
	committer := repository.NewCommitter(db)

	notificationService := notification.NewService(notificationRepo)
	bookingService := booking.NewService(
		bookingRepo, reservationRepo, listingRepo, notificationService, committer,
	)

	jobs := NewJobs(
		bookingRepo, bookingService, deletionRepo, notificationRepo,
		blobs, committer, slog.New(slog.DiscardHandler),
		time.Minute, time.Minute,
	)
	return jobs, db
}

func seedBookingRequest(t *testing.T, db *gorm.DB, status domain.BookingStatus, expiresAt time.Time) *domain.BookingRequest {
	t.Helper()
	br := &domain.BookingRequest{
		ListingID:  5,
		GuestID:    100,
		HostID:     200,
		Status:     status,
		CheckIn:    time.Now().Add(48 * time.Hour),
		CheckOut:   time.Now().Add(96 * time.Hour),
		GuestCount: 2,
		ExpiresAt:  expiresAt,
	}
	require.NoError(t, db.Create(br).Error)
	return br
}

func TestExpireBookings_FlipsOverduePending(t *testing.T) {
	jobs, db := testJobs(t, &stubBlobDeleter{})

	overdue := seedBookingRequest(t, db, domain.BookingPending, time.Now().Add(-time.Hour))
	fresh := seedBookingRequest(t, db, domain.BookingPending, time.Now().Add(time.Hour))
	accepted := seedBookingRequest(t, db, domain.BookingAccepted, time.Now().Add(-time.Hour))

	require.NoError(t, jobs.ExpireBookings(context.Background()))

	var got domain.BookingRequest
	require.NoError(t, db.First(&got, overdue.ID).Error)
	assert.Equal(t, domain.BookingExpired, got.Status)

	got = domain.BookingRequest{}
	require.NoError(t, db.First(&got, fresh.ID).Error)
	assert.Equal(t, domain.BookingPending, got.Status)

	got = domain.BookingRequest{}
	require.NoError(t, db.First(&got, accepted.ID).Error)
	assert.Equal(t, domain.BookingAccepted, got.Status)

	// One expiry notification for the guest, no more, pointing at the
	// expired record.
	var notifs []domain.Notification
	require.NoError(t, db.Where("type = ?", domain.NotifBookingExpired).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, overdue.GuestID, notifs[0].UserID)

	var data domain.NotificationData
	require.NoError(t, json.Unmarshal(notifs[0].Data, &data))
	require.NotNil(t, data.BookingID)
	assert.Equal(t, overdue.ID, *data.BookingID)
}

func TestExpireBookings_SecondRunIsNoop(t *testing.T) {
	jobs, db := testJobs(t, &stubBlobDeleter{})

	seedBookingRequest(t, db, domain.BookingPending, time.Now().Add(-time.Hour))

	require.NoError(t, jobs.ExpireBookings(context.Background()))
	require.NoError(t, jobs.ExpireBookings(context.Background()))

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("type = ?", domain.NotifBookingExpired).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteDueMedia_RemovesBlobAndRecord(t *testing.T) {
	blobs := &stubBlobDeleter{}
	jobs, db := testJobs(t, blobs)

	due := &domain.ScheduledDeletion{
		Type:          domain.DeletionChatAttachment,
		OwnerEntityID: 321,
		AttachmentKey: "chat/7/abc.jpg",
		DeleteAt:      time.Now().Add(-time.Hour),
	}
	notDue := &domain.ScheduledDeletion{
		Type:          domain.DeletionChatAttachment,
		OwnerEntityID: 322,
		AttachmentKey: "chat/7/later.jpg",
		DeleteAt:      time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(due).Error)
	require.NoError(t, db.Create(notDue).Error)

	require.NoError(t, jobs.DeleteDueMedia(context.Background()))

	assert.Equal(t, []string{"chat/7/abc.jpg"}, blobs.deleted)

	var count int64
	require.NoError(t, db.Model(&domain.ScheduledDeletion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteDueMedia_RecordRetiredWhenBlobDeleteFails(t *testing.T) {
	blobs := &stubBlobDeleter{err: errors.New("blob store unavailable")}
	jobs, db := testJobs(t, blobs)

	require.NoError(t, db.Create(&domain.ScheduledDeletion{
		Type:          domain.DeletionVoiceNote,
		OwnerEntityID: 321,
		AttachmentKey: "chat/7/note.ogg",
		DeleteAt:      time.Now().Add(-time.Hour),
	}).Error)

	require.NoError(t, jobs.DeleteDueMedia(context.Background()))

	var count int64
	require.NoError(t, db.Model(&domain.ScheduledDeletion{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Running again finds nothing; the store is not retried forever.
	require.NoError(t, jobs.DeleteDueMedia(context.Background()))
	assert.Len(t, blobs.deleted, 1)
}

func TestTrimNotifications_DropsOnlyOldOnes(t *testing.T) {
	jobs, db := testJobs(t, &stubBlobDeleter{})

	old := &domain.Notification{UserID: 100, Type: domain.NotifBookingExpired, Title: "old"}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Model(old).
		Update("created_at", time.Now().Add(-31*24*time.Hour)).Error)

	recent := &domain.Notification{UserID: 100, Type: domain.NotifBookingAccepted, Title: "recent"}
	require.NoError(t, db.Create(recent).Error)

	require.NoError(t, jobs.TrimNotifications(context.Background()))

	var remaining []domain.Notification
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Title)
}

func TestWeeklyAt_Next(t *testing.T) {
	// Wednesday noon.
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)

	next := WeeklyAt{Weekday: time.Sunday, Hour: 3}.next(now)
	assert.Equal(t, time.Sunday, next.Weekday())
	assert.Equal(t, 3, next.Hour())
	assert.True(t, next.After(now))
	assert.Equal(t, time.Date(2026, 1, 11, 3, 0, 0, 0, time.UTC), next)

	// Already past this week's slot: jump a full week.
	sundayNoon := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC)
	next = WeeklyAt{Weekday: time.Sunday, Hour: 3}.next(sundayNoon)
	assert.Equal(t, time.Date(2026, 1, 18, 3, 0, 0, 0, time.UTC), next)
}
