package domain

import (
	"encoding/json"
	"time"
)

// NotificationType represents notification type
type NotificationType string

const (
	// Booking lifecycle
	NotifBookingRequested NotificationType = "booking_requested" // Host: new booking request
	NotifBookingAccepted  NotificationType = "booking_accepted"  // Guest: request accepted
	NotifBookingDeclined  NotificationType = "booking_declined"  // Guest: request declined
	NotifBookingCancelled NotificationType = "booking_cancelled" // Host: guest cancelled
	NotifBookingExpired   NotificationType = "booking_expired"   // Guest: request expired unanswered

	// Identity verification
	NotifKycApproved NotificationType = "kyc_approved" // User: verification approved

	// Communication
	NotifNewMessage NotificationType = "new_message" // Both: new chat message
)

// Notification is a user-facing event record. It is created only as a side
// effect of a state change, in the same batch as that change.
type Notification struct {
	ID        int64            `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64            `gorm:"column:user_id;index:idx_notifications_user_unread" json:"user_id"`
	Type      NotificationType `gorm:"column:type" json:"type"`
	Title     string           `gorm:"column:title" json:"title"`
	Message   string           `gorm:"column:message" json:"message,omitempty"`
	Data      json.RawMessage  `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	IsRead    bool             `gorm:"column:is_read;index:idx_notifications_user_unread" json:"is_read"`
	CreatedAt time.Time        `gorm:"column:created_at;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationData links a notification to the entities it is about.
type NotificationData struct {
	BookingID      *int64  `json:"booking_id,omitempty"`
	ListingID      *int64  `json:"listing_id,omitempty"`
	ReservationID  *int64  `json:"reservation_id,omitempty"`
	VerificationID *int64  `json:"verification_id,omitempty"`
	ChatID         *int64  `json:"chat_id,omitempty"`
	MessageID      *int64  `json:"message_id,omitempty"`
	Reason         *string `json:"reason,omitempty"`
	MessagePreview *string `json:"message_preview,omitempty"`
}

// SetData encodes data to JSON
func (n *Notification) SetData(data *NotificationData) error {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	n.Data = b
	return nil
}
