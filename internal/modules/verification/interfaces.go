package verification

import (
	"context"
	"time"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

type VerificationRepository interface {
	Create(ctx context.Context, req *domain.IdentityVerificationRequest) error
	GetByID(ctx context.Context, id int64) (*domain.IdentityVerificationRequest, error)
	GetLatestByUser(ctx context.Context, userID int64) (*domain.IdentityVerificationRequest, error)
	ListByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.IdentityVerificationRequest, error)
	StageDecision(b *repository.Batch, id int64, from, to domain.VerificationStatus, reviewedBy int64, notes string, decidedAt time.Time)
}

type UserRepository interface {
	StagePromoteToHost(b *repository.Batch, userID int64, approvedAt time.Time)
}

type Notifier interface {
	StageKycApproved(b *repository.Batch, userID, verificationID int64) error
}

type BatchCommitter interface {
	Commit(ctx context.Context, b *repository.Batch) error
}
