package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stayhaven/internal/domain"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, req *domain.IdentityVerificationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *VerificationRepository) GetByID(ctx context.Context, id int64) (*domain.IdentityVerificationRequest, error) {
	var req domain.IdentityVerificationRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *VerificationRepository) GetLatestByUser(ctx context.Context, userID int64) (*domain.IdentityVerificationRequest, error) {
	var req domain.IdentityVerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *VerificationRepository) ListByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.IdentityVerificationRequest, error) {
	var out []domain.IdentityVerificationRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// StageDecision stages the status write guarded on the status the reviewer
// saw. A concurrent decision makes the batch fail with ErrNoRowsAffected
// instead of re-firing the promotion.
func (r *VerificationRepository) StageDecision(b *Batch, id int64, from, to domain.VerificationStatus, reviewedBy int64, notes string, decidedAt time.Time) {
	b.Add(func(tx *gorm.DB) error {
		res := tx.Model(&domain.IdentityVerificationRequest{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]any{
				"status":      to,
				"reviewed_by": reviewedBy,
				"notes":       notes,
				"decision_at": decidedAt,
				"updated_at":  decidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		return nil
	})
}
