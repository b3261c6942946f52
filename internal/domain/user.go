package domain

import "time"

type UserRole string

const (
	RoleGuest UserRole = "guest"
	RoleHost  UserRole = "host"
	RoleAdmin UserRole = "admin"
)

type KycStatus string

const (
	KycNone     KycStatus = "none"
	KycPending  KycStatus = "pending"
	KycApproved KycStatus = "approved"
	KycRejected KycStatus = "rejected"
)

type User struct {
	ID            int64      `gorm:"column:id;primaryKey" json:"id"`
	Email         string     `gorm:"column:email;uniqueIndex" json:"email" validate:"required,email"`
	PasswordHash  string     `gorm:"column:password_hash" json:"-"`
	Name          string     `gorm:"column:name" json:"name"`
	Role          UserRole   `gorm:"column:role;size:20" json:"role"`
	KycStatus     KycStatus  `gorm:"column:kyc_status;size:20" json:"kyc_status"`
	KycApprovedAt *time.Time `gorm:"column:kyc_approved_at" json:"kyc_approved_at,omitempty"`
	EmailVerified bool       `gorm:"column:email_verified" json:"email_verified"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
