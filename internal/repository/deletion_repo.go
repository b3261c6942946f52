package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stayhaven/internal/domain"
)

type ScheduledDeletionRepository struct {
	db *gorm.DB
}

func NewScheduledDeletionRepository(db *gorm.DB) *ScheduledDeletionRepository {
	return &ScheduledDeletionRepository{db: db}
}

// Create is deliberately a plain single write: scheduling happens best-effort
// after the triggering message has already committed.
func (r *ScheduledDeletionRepository) Create(ctx context.Context, d *domain.ScheduledDeletion) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *ScheduledDeletionRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledDeletion, error) {
	var out []domain.ScheduledDeletion
	err := r.db.WithContext(ctx).
		Where("delete_at <= ?", now).
		Order("delete_at").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *ScheduledDeletionRepository) StageDeleteByID(b *Batch, id int64) {
	b.Add(func(tx *gorm.DB) error {
		return tx.Delete(&domain.ScheduledDeletion{}, id).Error
	})
}
