package chat

import (
	"context"
	"io"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

type ChatRepository interface {
	CreateChat(ctx context.Context, c *domain.Chat) error
	GetChatByID(ctx context.Context, id int64) (*domain.Chat, error)
	ListChatsByUser(ctx context.Context, userID int64) ([]domain.Chat, error)
	StageCreateMessage(b *repository.Batch, m *domain.ChatMessage)
	ListMessages(ctx context.Context, chatID int64, limit, offset int) ([]domain.ChatMessage, error)
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type DeletionScheduler interface {
	Create(ctx context.Context, d *domain.ScheduledDeletion) error
}

type Notifier interface {
	StageNewMessage(b *repository.Batch, recipientID int64, msg *domain.ChatMessage, preview string) error
}

type BatchCommitter interface {
	Commit(ctx context.Context, b *repository.Batch) error
}

type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	URL(key string) string
}
