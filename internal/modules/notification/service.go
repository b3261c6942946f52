package notification

import (
	"context"
	"fmt"
	"time"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

type Service struct {
	repo *repository.NotificationRepository
}

func NewService(repo *repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// stage builds the record and stages it into the caller's batch, so the
// notification commits together with the state change it describes.
func (s *Service) stage(b *repository.Batch, userID int64, t domain.NotificationType, title, message string, data *domain.NotificationData) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
	}
	if err := n.SetData(data); err != nil {
		return err
	}
	s.repo.StageCreate(b, n)
	return nil
}

// StageBookingRequested defers building the payload until the batch runs,
// because the request's ID is assigned by an earlier write in the same batch.
func (s *Service) StageBookingRequested(b *repository.Batch, hostID int64, br *domain.BookingRequest, checkIn time.Time) error {
	s.repo.StageCreateFunc(b, func() (*domain.Notification, error) {
		n := &domain.Notification{
			UserID:  hostID,
			Type:    domain.NotifBookingRequested,
			Title:   "New booking request",
			Message: fmt.Sprintf("You have a new booking request for %s", checkIn.Format("02 Jan 2006")),
		}
		if err := n.SetData(&domain.NotificationData{BookingID: &br.ID, ListingID: &br.ListingID}); err != nil {
			return nil, err
		}
		return n, nil
	})
	return nil
}

func (s *Service) StageBookingAccepted(b *repository.Batch, guestID, bookingID, listingID int64) error {
	return s.stage(b, guestID, domain.NotifBookingAccepted,
		"Booking accepted",
		"Your booking request was accepted by the host",
		&domain.NotificationData{BookingID: &bookingID, ListingID: &listingID},
	)
}

// StageBookingDeclined carries the host's reason verbatim; the booking
// service substitutes the default message before calling.
func (s *Service) StageBookingDeclined(b *repository.Batch, guestID, bookingID, listingID int64, reason string) error {
	return s.stage(b, guestID, domain.NotifBookingDeclined,
		"Booking declined",
		reason,
		&domain.NotificationData{BookingID: &bookingID, ListingID: &listingID, Reason: &reason},
	)
}

func (s *Service) StageBookingCancelled(b *repository.Batch, hostID, bookingID, listingID int64, reason string) error {
	msg := "The guest cancelled their booking request"
	data := &domain.NotificationData{BookingID: &bookingID, ListingID: &listingID}
	if reason != "" {
		msg = reason
		data.Reason = &reason
	}
	return s.stage(b, hostID, domain.NotifBookingCancelled, "Booking cancelled", msg, data)
}

func (s *Service) StageBookingExpired(b *repository.Batch, guestID, bookingID, listingID int64) error {
	return s.stage(b, guestID, domain.NotifBookingExpired,
		"Booking request expired",
		"The host did not respond within 24 hours, so your request expired",
		&domain.NotificationData{BookingID: &bookingID, ListingID: &listingID},
	)
}

func (s *Service) StageKycApproved(b *repository.Batch, userID, verificationID int64) error {
	return s.stage(b, userID, domain.NotifKycApproved,
		"Identity verified",
		"Your identity verification was approved. You can now list property.",
		&domain.NotificationData{VerificationID: &verificationID},
	)
}

// StageNewMessage defers the payload build like StageBookingRequested: the
// message's ID is assigned by its insert earlier in the same batch.
func (s *Service) StageNewMessage(b *repository.Batch, recipientID int64, msg *domain.ChatMessage, preview string) error {
	s.repo.StageCreateFunc(b, func() (*domain.Notification, error) {
		n := &domain.Notification{
			UserID:  recipientID,
			Type:    domain.NotifNewMessage,
			Title:   "New message",
			Message: preview,
		}
		if err := n.SetData(&domain.NotificationData{
			ChatID:         &msg.ChatID,
			MessageID:      &msg.ID,
			MessagePreview: &preview,
		}); err != nil {
			return nil, err
		}
		return n, nil
	})
	return nil
}
