package domain

import "time"

type DeletionType string

const (
	DeletionChatAttachment DeletionType = "chat_attachment"
	DeletionVoiceNote      DeletionType = "voice_note"
)

// AttachmentRetention is how long chat media lives before it is scheduled away.
const AttachmentRetention = 15 * 24 * time.Hour

// ScheduledDeletion marks a blob for future removal. The deletion sweep
// consumes it and removes the record whether or not the blob delete succeeded,
// so the tracking table never accumulates unprocessable rows.
type ScheduledDeletion struct {
	ID            int64        `gorm:"column:id;primaryKey" json:"id"`
	Type          DeletionType `gorm:"column:type" json:"type"`
	OwnerEntityID int64        `gorm:"column:owner_entity_id;index" json:"owner_entity_id"`
	AttachmentKey string       `gorm:"column:attachment_key" json:"attachment_key"`
	DeleteAt      time.Time    `gorm:"column:delete_at;index" json:"delete_at"`
	CreatedAt     time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (ScheduledDeletion) TableName() string { return "scheduled_deletions" }
