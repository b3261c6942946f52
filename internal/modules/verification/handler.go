package verification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stayhaven/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	DocumentType string `json:"document_type" binding:"required"`
	DocumentURL  string `json:"document_url" binding:"required"`
}

type decisionRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	g := protected.Group("/verification")
	{
		g.POST("", h.Submit)
		g.GET("/me", h.GetMine)
	}

	a := admin.Group("/verification")
	{
		a.GET("/pending", h.ListPending)
		a.POST("/:id/decision", h.Decide)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "document_type and document_url are required")
		return
	}

	v, err := h.service.Submit(c.Request.Context(), userID, req.DocumentType, req.DocumentURL)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid submission")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SUBMIT_FAILED", "Failed to submit verification")
		return
	}

	response.Success(c, http.StatusCreated, v)
}

func (h *Handler) GetMine(c *gin.Context) {
	userID := c.GetInt64("user_id")

	v, err := h.service.GetForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No verification request on file")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get verification")
		return
	}

	response.Success(c, http.StatusOK, v)
}

func (h *Handler) ListPending(c *gin.Context) {
	limit := 20
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	list, err := h.service.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list pending requests")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": list})
}

func (h *Handler) Decide(c *gin.Context) {
	adminID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid verification ID")
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	v, err := h.service.Decide(c.Request.Context(), id, adminID, req.Approve, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Verification request not found")
		case errors.Is(err, ErrAlreadyDecided):
			response.Error(c, http.StatusConflict, "ALREADY_APPROVED", "Request is already approved")
		case errors.Is(err, ErrConflict):
			response.Error(c, http.StatusConflict, "CONCURRENT_DECISION", "Request was decided concurrently")
		default:
			response.Error(c, http.StatusInternalServerError, "DECIDE_FAILED", "Failed to record decision")
		}
		return
	}

	response.Success(c, http.StatusOK, v)
}
