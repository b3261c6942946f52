package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

// defaultDeclineReason is stored and sent when the host gives no reason.
const defaultDeclineReason = "Host declined the request"

type Service struct {
	bookings     BookingRequestRepository
	reservations ReservationRepository
	listings     ListingRepository
	notifs       Notifier
	committer    BatchCommitter
}

func NewService(
	bookings BookingRequestRepository,
	reservations ReservationRepository,
	listings ListingRepository,
	notifs Notifier,
	committer BatchCommitter,
) *Service {
	return &Service{
		bookings:     bookings,
		reservations: reservations,
		listings:     listings,
		notifs:       notifs,
		committer:    committer,
	}
}

// Create opens a new booking request in pending state. The request expires
// 24 hours later if the host never responds.
func (s *Service) Create(ctx context.Context, guestID int64, req CreateBookingRequest) (*domain.BookingRequest, error) {
	if !req.CheckOut.After(req.CheckIn) {
		return nil, ErrValidation
	}
	now := time.Now()
	if req.CheckIn.Before(now) {
		return nil, ErrValidation
	}
	if req.GuestCount < 1 {
		return nil, ErrValidation
	}

	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.Status != domain.ListingActive {
		return nil, ErrValidation
	}
	if listing.HostID == guestID {
		return nil, ErrValidation
	}
	if listing.MaxGuestCount > 0 && req.GuestCount > listing.MaxGuestCount {
		return nil, ErrValidation
	}

	pricing := req.Pricing
	if len(pricing) == 0 {
		pricing = pricingSnapshot(listing.NightlyPrice, req.CheckIn, req.CheckOut)
	}

	br := &domain.BookingRequest{
		ListingID:       req.ListingID,
		GuestID:         guestID,
		HostID:          listing.HostID,
		Status:          domain.BookingPending,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		GuestCount:      req.GuestCount,
		PricingSnapshot: pricing,
		ExpiresAt:       now.Add(domain.BookingRequestTTL),
	}

	b := repository.NewBatch()
	s.bookings.StageCreate(b, br)
	if err := s.notifs.StageBookingRequested(b, listing.HostID, br, req.CheckIn); err != nil {
		return nil, err
	}

	if err := s.committer.Commit(ctx, b); err != nil {
		return nil, err
	}
	return br, nil
}

// Accept confirms a pending request. As one atomic unit it writes the
// reservation copy, flips the request to accepted and notifies the guest.
// Only the host of record may accept.
func (s *Service) Accept(ctx context.Context, bookingID, callerID int64) (*domain.Reservation, error) {
	req, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if req.HostID != callerID {
		return nil, ErrPermissionDenied
	}
	if req.Status != domain.BookingPending {
		return nil, ErrInvalidStateTransition
	}

	now := time.Now()
	res := &domain.Reservation{
		BookingRequestID: req.ID,
		ListingID:        req.ListingID,
		GuestID:          req.GuestID,
		HostID:           req.HostID,
		Status:           domain.ReservationConfirmed,
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		GuestCount:       req.GuestCount,
		PricingSnapshot:  req.PricingSnapshot,
		ConfirmedAt:      now,
	}

	b := repository.NewBatch()
	s.reservations.StageCreate(b, res)
	s.bookings.StageTransition(b, req.ID, domain.BookingPending, domain.BookingAccepted, nil)
	if err := s.notifs.StageBookingAccepted(b, req.GuestID, req.ID, req.ListingID); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, b); err != nil {
		return nil, err
	}
	return res, nil
}

// Decline rejects a pending request. Only the host of record may decline.
// An empty reason is replaced with a default message.
func (s *Service) Decline(ctx context.Context, bookingID, callerID int64, reason string) error {
	req, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if req.HostID != callerID {
		return ErrPermissionDenied
	}
	if req.Status != domain.BookingPending {
		return ErrInvalidStateTransition
	}

	if reason == "" {
		reason = defaultDeclineReason
	}

	b := repository.NewBatch()
	s.bookings.StageTransition(b, req.ID, domain.BookingPending, domain.BookingDeclined, map[string]any{
		"decline_reason": reason,
	})
	if err := s.notifs.StageBookingDeclined(b, req.GuestID, req.ID, req.ListingID, reason); err != nil {
		return err
	}

	return s.commit(ctx, b)
}

// Cancel withdraws a pending request. Only the guest who opened it may cancel.
func (s *Service) Cancel(ctx context.Context, bookingID, callerID int64, reason string) error {
	req, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if req.GuestID != callerID {
		return ErrPermissionDenied
	}
	if req.Status != domain.BookingPending {
		return ErrInvalidStateTransition
	}

	b := repository.NewBatch()
	s.bookings.StageTransition(b, req.ID, domain.BookingPending, domain.BookingCancelled, map[string]any{
		"cancel_reason": reason,
	})
	if err := s.notifs.StageBookingCancelled(b, req.HostID, req.ID, req.ListingID, reason); err != nil {
		return err
	}

	return s.commit(ctx, b)
}

// StageExpiry stages the expiry transition and its notification into the
// sweep's batch. Only the expiry sweep calls this.
func (s *Service) StageExpiry(b *repository.Batch, req domain.BookingRequest, now time.Time) error {
	if req.Status != domain.BookingPending || req.ExpiresAt.After(now) {
		return ErrInvalidStateTransition
	}

	s.bookings.StageTransition(b, req.ID, domain.BookingPending, domain.BookingExpired, nil)
	return s.notifs.StageBookingExpired(b, req.GuestID, req.ID, req.ListingID)
}

// GetForUser returns a request visible to its guest or host.
func (s *Service) GetForUser(ctx context.Context, bookingID, userID int64) (*domain.BookingRequest, error) {
	req, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if req.GuestID != userID && req.HostID != userID {
		return nil, ErrPermissionDenied
	}
	return req, nil
}

func (s *Service) ListForGuest(ctx context.Context, guestID int64, limit, offset int) ([]domain.BookingRequest, error) {
	return s.bookings.ListByGuest(ctx, guestID, limit, offset)
}

func (s *Service) ListForHost(ctx context.Context, hostID int64, limit, offset int) ([]domain.BookingRequest, error) {
	return s.bookings.ListByHost(ctx, hostID, limit, offset)
}

func (s *Service) load(ctx context.Context, bookingID int64) (*domain.BookingRequest, error) {
	req, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// commit maps a lost optimistic race to ErrInvalidStateTransition: either the
// guarded status update matched no row, or the reservation's unique index
// rejected a second accept.
func (s *Service) commit(ctx context.Context, b *repository.Batch) error {
	err := s.committer.Commit(ctx, b)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNoRowsAffected) || isUniqueViolation(err) {
		return ErrInvalidStateTransition
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func pricingSnapshot(nightly float64, checkIn, checkOut time.Time) json.RawMessage {
	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	total := math.Round(nightly*float64(nights)*100) / 100
	return json.RawMessage(fmt.Sprintf(`{"nightly_price":%g,"nights":%d,"total":%g}`, nightly, nights, total))
}
