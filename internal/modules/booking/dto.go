package booking

import (
	"encoding/json"
	"time"
)

type CreateBookingRequest struct {
	ListingID  int64           `json:"listing_id" binding:"required"`
	CheckIn    time.Time       `json:"check_in" binding:"required"`
	CheckOut   time.Time       `json:"check_out" binding:"required"`
	GuestCount int             `json:"guest_count" binding:"required,gte=1"`
	Pricing    json.RawMessage `json:"pricing,omitempty"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}
