package booking

import (
	"context"
	"time"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

// BookingRequestRepository defines the booking-request persistence operations
type BookingRequestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	ListByGuest(ctx context.Context, guestID int64, limit, offset int) ([]domain.BookingRequest, error)
	ListByHost(ctx context.Context, hostID int64, limit, offset int) ([]domain.BookingRequest, error)
	StageCreate(b *repository.Batch, br *domain.BookingRequest)
	StageTransition(b *repository.Batch, id int64, from, to domain.BookingStatus, extra map[string]any)
}

type ReservationRepository interface {
	StageCreate(b *repository.Batch, res *domain.Reservation)
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

// Notifier stages lifecycle notifications into the same batch as the
// transition they announce.
type Notifier interface {
	StageBookingRequested(b *repository.Batch, hostID int64, br *domain.BookingRequest, checkIn time.Time) error
	StageBookingAccepted(b *repository.Batch, guestID, bookingID, listingID int64) error
	StageBookingDeclined(b *repository.Batch, guestID, bookingID, listingID int64, reason string) error
	StageBookingCancelled(b *repository.Batch, hostID, bookingID, listingID int64, reason string) error
	StageBookingExpired(b *repository.Batch, guestID, bookingID, listingID int64) error
}

type BatchCommitter interface {
	Commit(ctx context.Context, b *repository.Batch) error
}
