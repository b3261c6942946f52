package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stayhaven/internal/pkg/response"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

type openChatRequest struct {
	ListingID int64 `json:"listing_id" binding:"required"`
}

type sendMessageRequest struct {
	Body          string `json:"body"`
	AttachmentKey string `json:"attachment_key"`
	VoiceNoteKey  string `json:"voice_note_key"`
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/chats")
	{
		g.POST("", h.OpenChat)
		g.GET("", h.ListChats)
		g.POST("/:id/messages", h.SendMessage)
		g.GET("/:id/messages", h.ListMessages)
		g.POST("/:id/attachments", h.UploadAttachment)
	}
}

func (h *Handler) OpenChat(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req openChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "listing_id is required")
		return
	}

	chat, err := h.service.OpenChat(c.Request.Context(), req.ListingID, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, chat)
}

func (h *Handler) ListChats(c *gin.Context) {
	userID := c.GetInt64("user_id")

	chats, err := h.service.ListChats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list chats")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"chats": chats})
}

func (h *Handler) SendMessage(c *gin.Context) {
	userID := c.GetInt64("user_id")

	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || chatID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	msg, recipient, err := h.service.SendMessage(c.Request.Context(), SendMessageInput{
		ChatID:        chatID,
		SenderID:      userID,
		Body:          req.Body,
		AttachmentKey: req.AttachmentKey,
		VoiceNoteKey:  req.VoiceNoteKey,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if h.hub != nil {
		ev := newMessageEvent(msg)
		h.hub.Push(userID, ev)
		h.hub.Push(recipient, ev)
	}

	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) ListMessages(c *gin.Context) {
	userID := c.GetInt64("user_id")

	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || chatID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	msgs, err := h.service.ListMessages(c.Request.Context(), chatID, userID, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) UploadAttachment(c *gin.Context) {
	userID := c.GetInt64("user_id")

	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || chatID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "file field is required")
		return
	}
	defer file.Close()

	key, url, err := h.service.UploadAttachment(
		c.Request.Context(), chatID, userID,
		header.Filename, header.Header.Get("Content-Type"), file,
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"key": key, "url": url})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Chat not found")
	case errors.Is(err, ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not a member of this chat")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
