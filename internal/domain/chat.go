package domain

import "time"

// Chat is a guest-host conversation tied to a listing.
type Chat struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	ListingID int64     `gorm:"column:listing_id;index" json:"listing_id"`
	GuestID   int64     `gorm:"column:guest_id;index" json:"guest_id"`
	HostID    int64     `gorm:"column:host_id;index" json:"host_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Chat) TableName() string { return "chats" }

// HasMember reports whether the user participates in the chat.
func (c *Chat) HasMember(userID int64) bool {
	return c.GuestID == userID || c.HostID == userID
}

// Other returns the chat participant that is not the given user.
func (c *Chat) Other(userID int64) int64 {
	if c.GuestID == userID {
		return c.HostID
	}
	return c.GuestID
}

type ChatMessage struct {
	ID            int64     `gorm:"column:id;primaryKey" json:"id"`
	ChatID        int64     `gorm:"column:chat_id;index" json:"chat_id"`
	SenderID      int64     `gorm:"column:sender_id" json:"sender_id"`
	Body          string    `gorm:"column:body;type:text" json:"body,omitempty"`
	AttachmentKey string    `gorm:"column:attachment_key;size:512" json:"attachment_key,omitempty"`
	VoiceNoteKey  string    `gorm:"column:voice_note_key;size:512" json:"voice_note_key,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
