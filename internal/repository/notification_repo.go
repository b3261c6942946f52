package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stayhaven/internal/domain"
)

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id"`
	Type      string    `gorm:"column:type"`
	Title     string    `gorm:"column:title"`
	Message   *string   `gorm:"column:message"`
	Data      []byte    `gorm:"column:data"`
	IsRead    bool      `gorm:"column:is_read"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toNotificationModel(n *domain.Notification) notificationModel {
	var msg *string
	if n.Message != "" {
		m := n.Message
		msg = &m
	}
	return notificationModel{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   msg,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func toDomainNotification(m notificationModel) domain.Notification {
	var msg string
	if m.Message != nil {
		msg = *m.Message
	}
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		Title:     m.Title,
		Message:   msg,
		Data:      m.Data,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// StageCreate stages the notification into the batch that also performs the
// underlying state change. Notifications are never written outside a batch.
func (r *NotificationRepository) StageCreate(b *Batch, n *domain.Notification) {
	b.Add(func(tx *gorm.DB) error {
		m := toNotificationModel(n)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		n.ID = m.ID
		return nil
	})
}

// StageCreateFunc stages a notification whose payload is built only when the
// batch executes, for records that reference IDs assigned earlier in the same
// batch.
func (r *NotificationRepository) StageCreateFunc(b *Batch, build func() (*domain.Notification, error)) {
	b.Add(func(tx *gorm.DB) error {
		n, err := build()
		if err != nil {
			return err
		}
		m := toNotificationModel(n)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		n.ID = m.ID
		return nil
	})
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var rows []notificationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&cnt).Error
	return cnt, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// ListIDsOlderThan selects notifications past the retention cutoff.
func (r *NotificationRepository) ListIDsOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("created_at < ?", cutoff).
		Order("created_at").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *NotificationRepository) StageDeleteByID(b *Batch, id int64) {
	b.Add(func(tx *gorm.DB) error {
		return tx.Delete(&notificationModel{}, id).Error
	})
}
