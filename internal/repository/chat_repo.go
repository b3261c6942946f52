package repository

import (
	"context"

	"gorm.io/gorm"

	"stayhaven/internal/domain"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateChat(ctx context.Context, c *domain.Chat) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ChatRepository) GetChatByID(ctx context.Context, id int64) (*domain.Chat, error) {
	var c domain.Chat
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) ListChatsByUser(ctx context.Context, userID int64) ([]domain.Chat, error) {
	var out []domain.Chat
	err := r.db.WithContext(ctx).
		Where("guest_id = ? OR host_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// StageCreateMessage stages the message insert so the recipient's
// notification can commit in the same batch. The ID is populated once the
// batch runs.
func (r *ChatRepository) StageCreateMessage(b *Batch, m *domain.ChatMessage) {
	b.Add(func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID int64, limit, offset int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}
