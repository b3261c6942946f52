package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
)

// IsTerminal reports whether no further transitions are permitted.
func (s BookingStatus) IsTerminal() bool {
	return s != BookingPending
}

// BookingRequestTTL is how long a host has to respond before the request expires.
const BookingRequestTTL = 24 * time.Hour

type BookingRequest struct {
	ID              int64           `gorm:"column:id;primaryKey" json:"id"`
	ListingID       int64           `gorm:"column:listing_id;index" json:"listing_id" validate:"required"`
	GuestID         int64           `gorm:"column:guest_id;index" json:"guest_id" validate:"required"`
	HostID          int64           `gorm:"column:host_id;index" json:"host_id" validate:"required"`
	Status          BookingStatus   `gorm:"column:status;size:20;index:idx_booking_requests_due,priority:1" json:"status"`
	CheckIn         time.Time       `gorm:"column:check_in" json:"check_in" validate:"required"`
	CheckOut        time.Time       `gorm:"column:check_out" json:"check_out" validate:"required"`
	GuestCount      int             `gorm:"column:guest_count" json:"guest_count" validate:"required,gte=1"`
	PricingSnapshot json.RawMessage `gorm:"column:pricing_snapshot;type:jsonb" json:"pricing_snapshot,omitempty"`
	DeclineReason   string          `gorm:"column:decline_reason;type:text" json:"decline_reason,omitempty"`
	CancelReason    string          `gorm:"column:cancel_reason;type:text" json:"cancel_reason,omitempty"`
	ExpiresAt       time.Time       `gorm:"column:expires_at;index:idx_booking_requests_due,priority:2" json:"expires_at"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (BookingRequest) TableName() string { return "booking_requests" }
