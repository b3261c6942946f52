package domain

import "time"

type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
)

// Listing carries only what the booking core needs: ownership and liveness.
// Search, pricing UI and the rest of the catalog live outside this service.
type Listing struct {
	ID            int64         `gorm:"column:id;primaryKey" json:"id"`
	HostID        int64         `gorm:"column:host_id;index" json:"host_id"`
	Title         string        `gorm:"column:title" json:"title" validate:"required"`
	NightlyPrice  float64       `gorm:"column:nightly_price" json:"nightly_price"`
	MaxGuestCount int           `gorm:"column:max_guest_count" json:"max_guest_count"`
	Status        ListingStatus `gorm:"column:status;size:20" json:"status"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Listing) TableName() string { return "listings" }
