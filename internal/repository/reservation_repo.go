package repository

import (
	"context"

	"gorm.io/gorm"

	"stayhaven/internal/domain"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) GetByBookingRequestID(ctx context.Context, bookingRequestID int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).
		Where("booking_request_id = ?", bookingRequestID).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID int64, limit, offset int) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("confirmed_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// StageCreate stages the reservation insert. The unique index on
// booking_request_id makes a duplicate accept fail the whole batch.
func (r *ReservationRepository) StageCreate(b *Batch, res *domain.Reservation) {
	b.Add(func(tx *gorm.DB) error {
		return tx.Create(res).Error
	})
}
