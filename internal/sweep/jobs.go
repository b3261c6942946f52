package sweep

import (
	"context"
	"log/slog"
	"time"

	"stayhaven/internal/domain"
	"stayhaven/internal/modules/booking"
	"stayhaven/internal/repository"
)

const (
	notificationRetention = 30 * 24 * time.Hour
	retentionWeekday      = time.Sunday
	retentionHour         = 3
)

type blobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Jobs wires the periodic reconciliation passes onto a scheduler.
type Jobs struct {
	bookings      *repository.BookingRequestRepository
	bookingSvc    *booking.Service
	deletions     *repository.ScheduledDeletionRepository
	notifications *repository.NotificationRepository
	blobs         blobDeleter
	committer     *repository.Committer
	log           *slog.Logger

	expiryEvery time.Duration
	mediaEvery  time.Duration
}

func NewJobs(
	bookings *repository.BookingRequestRepository,
	bookingSvc *booking.Service,
	deletions *repository.ScheduledDeletionRepository,
	notifications *repository.NotificationRepository,
	blobs blobDeleter,
	committer *repository.Committer,
	log *slog.Logger,
	expiryEvery, mediaEvery time.Duration,
) *Jobs {
	return &Jobs{
		bookings:      bookings,
		bookingSvc:    bookingSvc,
		deletions:     deletions,
		notifications: notifications,
		blobs:         blobs,
		committer:     committer,
		log:           log,
		expiryEvery:   expiryEvery,
		mediaEvery:    mediaEvery,
	}
}

func (j *Jobs) Register(s *Scheduler) {
	s.Add(Schedule{Name: "booking-expiry", Every: j.expiryEvery, Run: j.ExpireBookings})
	s.Add(Schedule{Name: "media-deletion", Every: j.mediaEvery, Run: j.DeleteDueMedia})
	s.Add(Schedule{
		Name:   "notification-retention",
		Weekly: &WeeklyAt{Weekday: retentionWeekday, Hour: retentionHour},
		Run:    j.TrimNotifications,
	})
}

// ExpireBookings flips pending requests whose deadline has passed to expired
// and notifies the guest, one atomic batch per request. A request accepted or
// cancelled between select and commit loses zero rows to the guarded update
// and is simply skipped.
func (j *Jobs) ExpireBookings(ctx context.Context) error {
	_, err := Run(ctx, Pass[domain.BookingRequest]{
		Name:   "booking-expiry",
		Select: j.bookings.ListExpiredPending,
		Process: func(ctx context.Context, b *repository.Batch, req domain.BookingRequest, now time.Time) error {
			return j.bookingSvc.StageExpiry(b, req, now)
		},
	}, j.committer, j.log)
	return err
}

// DeleteDueMedia removes blobs whose retention window has lapsed. The
// tracking record is removed whether or not the blob delete succeeded, so a
// blob that is already gone (or a transiently broken store) cannot wedge the
// queue; the miss is logged and the row retired.
func (j *Jobs) DeleteDueMedia(ctx context.Context) error {
	_, err := Run(ctx, Pass[domain.ScheduledDeletion]{
		Name:   "media-deletion",
		Select: j.deletions.ListDue,
		Process: func(ctx context.Context, b *repository.Batch, d domain.ScheduledDeletion, now time.Time) error {
			if err := j.blobs.Delete(ctx, d.AttachmentKey); err != nil {
				j.log.Warn("blob delete failed, retiring record anyway",
					"deletion_id", d.ID, "key", d.AttachmentKey, "error", err)
			}
			j.deletions.StageDeleteByID(b, d.ID)
			return nil
		},
	}, j.committer, j.log)
	return err
}

// TrimNotifications drops notifications older than the retention window.
// Runs weekly; loops full batches so a backlog clears in one invocation.
func (j *Jobs) TrimNotifications(ctx context.Context) error {
	for {
		n, err := Run(ctx, Pass[int64]{
			Name: "notification-retention",
			Select: func(ctx context.Context, now time.Time, limit int) ([]int64, error) {
				return j.notifications.ListIDsOlderThan(ctx, now.Add(-notificationRetention), limit)
			},
			Process: func(_ context.Context, b *repository.Batch, id int64, _ time.Time) error {
				j.notifications.StageDeleteByID(b, id)
				return nil
			},
		}, j.committer, j.log)
		if err != nil {
			return err
		}
		if n < defaultBatchSize {
			return nil
		}
	}
}
