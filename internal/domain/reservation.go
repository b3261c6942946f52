package domain

import (
	"encoding/json"
	"time"
)

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
)

// Reservation is the confirmed copy of an accepted booking request. It is a
// read-only historical record; nothing mutates it after creation. The unique
// index on BookingRequestID enforces at most one reservation per request.
type Reservation struct {
	ID               int64             `gorm:"column:id;primaryKey" json:"id"`
	BookingRequestID int64             `gorm:"column:booking_request_id;uniqueIndex" json:"booking_request_id"`
	ListingID        int64             `gorm:"column:listing_id;index" json:"listing_id"`
	GuestID          int64             `gorm:"column:guest_id;index" json:"guest_id"`
	HostID           int64             `gorm:"column:host_id;index" json:"host_id"`
	Status           ReservationStatus `gorm:"column:status" json:"status"`
	CheckIn          time.Time         `gorm:"column:check_in" json:"check_in"`
	CheckOut         time.Time         `gorm:"column:check_out" json:"check_out"`
	GuestCount       int               `gorm:"column:guest_count" json:"guest_count"`
	PricingSnapshot  json.RawMessage   `gorm:"column:pricing_snapshot;type:jsonb" json:"pricing_snapshot,omitempty"`
	ConfirmedAt      time.Time         `gorm:"column:confirmed_at" json:"confirmed_at"`
	CreatedAt        time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (Reservation) TableName() string { return "reservations" }
