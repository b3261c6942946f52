package domain

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// IdentityVerificationRequest is a user's submission to become a host.
// Promotion fires only on a non-approved to approved status transition.
type IdentityVerificationRequest struct {
	ID           int64              `gorm:"column:id;primaryKey" json:"id"`
	UserID       int64              `gorm:"column:user_id;index" json:"user_id"`
	DocumentType string             `gorm:"column:document_type;size:50" json:"document_type" validate:"required"`
	DocumentURL  string             `gorm:"column:document_url;size:512" json:"document_url" validate:"required"`
	Status       VerificationStatus `gorm:"column:status;size:20;index" json:"status"`
	ReviewedBy   *int64             `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	Notes        string             `gorm:"column:notes;type:text" json:"notes,omitempty"`
	DecisionAt   *time.Time         `gorm:"column:decision_at" json:"decision_at,omitempty"`
	CreatedAt    time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"column:updated_at" json:"updated_at"`
}

func (IdentityVerificationRequest) TableName() string { return "identity_verification_requests" }
