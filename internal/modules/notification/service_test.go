package notification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stayhaven/internal/database"
	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

func testService(t *testing.T) (*Service, *repository.Committer, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(repository.NewNotificationRepository(db)), repository.NewCommitter(db), db
}

func TestStageBookingDeclined_ReasonVerbatim(t *testing.T) {
	svc, committer, _ := testService(t)
	ctx := context.Background()

	b := repository.NewBatch()
	require.NoError(t, svc.StageBookingDeclined(b, 100, 42, 5, "Dates no longer available"))
	require.NoError(t, committer.Commit(ctx, b))

	list, unread, err := svc.GetUserNotifications(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, domain.NotifBookingDeclined, list[0].Type)
	assert.Equal(t, "Dates no longer available", list[0].Message)
	assert.Contains(t, string(list[0].Data), `"reason":"Dates no longer available"`)
}

func TestMarkAsRead_OnlyOwnNotifications(t *testing.T) {
	svc, committer, _ := testService(t)
	ctx := context.Background()

	b := repository.NewBatch()
	require.NoError(t, svc.StageBookingAccepted(b, 100, 42, 5))
	require.NoError(t, committer.Commit(ctx, b))

	list, _, err := svc.GetUserNotifications(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Someone else cannot mark it.
	assert.Error(t, svc.MarkAsRead(ctx, list[0].ID, 999))

	require.NoError(t, svc.MarkAsRead(ctx, list[0].ID, 100))

	_, unread, err := svc.GetUserNotifications(ctx, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, committer, _ := testService(t)
	ctx := context.Background()

	b := repository.NewBatch()
	require.NoError(t, svc.StageBookingAccepted(b, 100, 42, 5))
	require.NoError(t, svc.StageBookingExpired(b, 100, 43, 5))
	require.NoError(t, committer.Commit(ctx, b))

	require.NoError(t, svc.MarkAllAsRead(ctx, 100))

	_, unread, err := svc.GetUserNotifications(ctx, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestStageNewMessage_SharesBatchWithMessageInsert(t *testing.T) {
	svc, committer, db := testService(t)
	ctx := context.Background()

	msg := &domain.ChatMessage{ChatID: 7, SenderID: 100, Body: "see photo"}

	b := repository.NewBatch()
	b.Add(func(tx *gorm.DB) error {
		return tx.Create(msg).Error
	})
	require.NoError(t, svc.StageNewMessage(b, 200, msg, "see photo"))
	require.NoError(t, committer.Commit(ctx, b))
	require.NotZero(t, msg.ID)

	list, unread, err := svc.GetUserNotifications(ctx, 200, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, domain.NotifNewMessage, list[0].Type)
	assert.Equal(t, "see photo", list[0].Message)

	// The deferred payload picked up the ID assigned by the insert.
	var data domain.NotificationData
	require.NoError(t, json.Unmarshal(list[0].Data, &data))
	require.NotNil(t, data.MessageID)
	assert.Equal(t, msg.ID, *data.MessageID)

	var count int64
	require.NoError(t, db.Model(&domain.ChatMessage{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
