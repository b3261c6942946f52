package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

const messagePreviewLen = 80

type Service struct {
	chats     ChatRepository
	listings  ListingRepository
	deletions DeletionScheduler
	notifier  Notifier
	blobs     BlobStore
	committer BatchCommitter
	log       *slog.Logger
}

func NewService(chats ChatRepository, listings ListingRepository, deletions DeletionScheduler, notifier Notifier, blobs BlobStore, committer BatchCommitter, log *slog.Logger) *Service {
	return &Service{
		chats:     chats,
		listings:  listings,
		deletions: deletions,
		notifier:  notifier,
		blobs:     blobs,
		committer: committer,
		log:       log,
	}
}

// OpenChat returns the existing conversation between the guest and the
// listing's host, creating it on first contact.
func (s *Service) OpenChat(ctx context.Context, listingID, guestID int64) (*domain.Chat, error) {
	if listingID <= 0 || guestID <= 0 {
		return nil, ErrValidation
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.HostID == guestID {
		return nil, ErrValidation
	}

	existing, err := s.chats.ListChatsByUser(ctx, guestID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].ListingID == listingID && existing[i].GuestID == guestID {
			return &existing[i], nil
		}
	}

	c := &domain.Chat{
		ListingID: listingID,
		GuestID:   guestID,
		HostID:    listing.HostID,
		CreatedAt: time.Now(),
	}
	if err := s.chats.CreateChat(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListChats(ctx context.Context, userID int64) ([]domain.Chat, error) {
	return s.chats.ListChatsByUser(ctx, userID)
}

type SendMessageInput struct {
	ChatID        int64
	SenderID      int64
	Body          string
	AttachmentKey string
	VoiceNoteKey  string
}

// SendMessage commits the message and the recipient's notification as one
// atomic unit, then fires the media retention schedule best-effort: the
// message is already committed and must not be failed retroactively. The
// recipient ID is returned so the caller can push the message over the hub.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*domain.ChatMessage, int64, error) {
	if in.Body == "" && in.AttachmentKey == "" && in.VoiceNoteKey == "" {
		return nil, 0, ErrValidation
	}

	chat, err := s.chats.GetChatByID(ctx, in.ChatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if !chat.HasMember(in.SenderID) {
		return nil, 0, ErrPermissionDenied
	}

	msg := &domain.ChatMessage{
		ChatID:        chat.ID,
		SenderID:      in.SenderID,
		Body:          in.Body,
		AttachmentKey: in.AttachmentKey,
		VoiceNoteKey:  in.VoiceNoteKey,
		CreatedAt:     time.Now(),
	}
	recipient := chat.Other(in.SenderID)

	b := repository.NewBatch()
	s.chats.StageCreateMessage(b, msg)
	if err := s.notifier.StageNewMessage(b, recipient, msg, preview(msg)); err != nil {
		return nil, 0, err
	}
	if err := s.committer.Commit(ctx, b); err != nil {
		return nil, 0, err
	}

	s.scheduleMediaCleanup(ctx, msg)

	return msg, recipient, nil
}

// scheduleMediaCleanup books the attachment (and voice note, if any) for
// removal after the retention window. A failed schedule only logs: the
// message itself already exists and the blob simply outlives its window.
func (s *Service) scheduleMediaCleanup(ctx context.Context, msg *domain.ChatMessage) {
	now := time.Now()

	schedule := func(t domain.DeletionType, key string) {
		if key == "" {
			return
		}
		d := &domain.ScheduledDeletion{
			Type:          t,
			OwnerEntityID: msg.ID,
			AttachmentKey: key,
			DeleteAt:      now.Add(domain.AttachmentRetention),
			CreatedAt:     now,
		}
		if err := s.deletions.Create(ctx, d); err != nil {
			s.log.Warn("media cleanup scheduling failed",
				"message_id", msg.ID, "type", string(t), "error", err)
		}
	}

	schedule(domain.DeletionChatAttachment, msg.AttachmentKey)
	schedule(domain.DeletionVoiceNote, msg.VoiceNoteKey)
}

func (s *Service) ListMessages(ctx context.Context, chatID, userID int64, limit, offset int) ([]domain.ChatMessage, error) {
	chat, err := s.chats.GetChatByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, ErrPermissionDenied
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.chats.ListMessages(ctx, chatID, limit, offset)
}

// UploadAttachment stores the blob under a fresh uuid key and returns the key
// for the subsequent SendMessage call.
func (s *Service) UploadAttachment(ctx context.Context, chatID, userID int64, filename, contentType string, r io.Reader) (string, string, error) {
	chat, err := s.chats.GetChatByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	if !chat.HasMember(userID) {
		return "", "", ErrPermissionDenied
	}

	key := fmt.Sprintf("chat/%d/%s%s", chatID, uuid.New().String(), strings.ToLower(path.Ext(filename)))
	if err := s.blobs.Save(ctx, key, r, contentType); err != nil {
		return "", "", err
	}
	return key, s.blobs.URL(key), nil
}

func preview(msg *domain.ChatMessage) string {
	switch {
	case msg.Body != "":
		if len(msg.Body) > messagePreviewLen {
			return msg.Body[:messagePreviewLen]
		}
		return msg.Body
	case msg.VoiceNoteKey != "":
		return "Voice message"
	default:
		return "Attachment"
	}
}
