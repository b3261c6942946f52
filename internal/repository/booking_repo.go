package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stayhaven/internal/domain"
)

type BookingRequestRepository struct {
	db *gorm.DB
}

func NewBookingRequestRepository(db *gorm.DB) *BookingRequestRepository {
	return &BookingRequestRepository{db: db}
}

func (r *BookingRequestRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	var br domain.BookingRequest
	if err := r.db.WithContext(ctx).First(&br, id).Error; err != nil {
		return nil, err
	}
	return &br, nil
}

func (r *BookingRequestRepository) ListByGuest(ctx context.Context, guestID int64, limit, offset int) ([]domain.BookingRequest, error) {
	var out []domain.BookingRequest
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *BookingRequestRepository) ListByHost(ctx context.Context, hostID int64, limit, offset int) ([]domain.BookingRequest, error) {
	var out []domain.BookingRequest
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// ListExpiredPending selects requests due for expiry: still pending with a
// deadline at or before now. The expiry sweep re-runs this same predicate
// every interval, which is what makes the sweep self-healing.
func (r *BookingRequestRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]domain.BookingRequest, error) {
	var out []domain.BookingRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", domain.BookingPending, now).
		Order("expires_at").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// StageCreate stages the insert of a new request. The record's ID is
// populated once the batch commits.
func (r *BookingRequestRepository) StageCreate(b *Batch, br *domain.BookingRequest) {
	b.Add(func(tx *gorm.DB) error {
		return tx.Create(br).Error
	})
}

// StageTransition stages a guarded status update. The write carries an
// expected-current-status predicate; if the row is no longer in that state
// the batch fails with ErrNoRowsAffected and nothing persists.
func (r *BookingRequestRepository) StageTransition(b *Batch, id int64, from, to domain.BookingStatus, extra map[string]any) {
	b.Add(func(tx *gorm.DB) error {
		assign := map[string]any{
			"status":     to,
			"updated_at": time.Now(),
		}
		for k, v := range extra {
			assign[k] = v
		}
		res := tx.Model(&domain.BookingRequest{}).
			Where("id = ? AND status = ?", id, from).
			Updates(assign)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		return nil
	})
}
