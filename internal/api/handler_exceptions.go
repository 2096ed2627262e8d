package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gate-access-backend/internal/model"
	"gate-access-backend/internal/plate"
	"gate-access-backend/internal/store"
)

type exceptionRequestPayload struct {
	RequesterID   int64      `json:"requesterId"`
	RequesterName string     `json:"requesterName" binding:"required"`
	Plate         string     `json:"plate" binding:"required"`
	Type          string     `json:"type" binding:"required,oneof=entry exit both"`
	PlannedEntry  *time.Time `json:"plannedEntry"`
	PlannedExit   *time.Time `json:"plannedExit"`
	Reason        string     `json:"reason"`
	ValidUntil    *time.Time `json:"validUntil"`
}

// ListExceptions handles GET /api/exceptions with optional filters.
func (h *Handler) ListExceptions(c *gin.Context) {
	f := store.RequestFilter{
		Plate:  plate.Normalize(c.Query("plate")),
		Status: model.RequestStatus(c.Query("status")),
		Limit:  200,
	}

	requests, err := h.store.ListRequests(c.Request.Context(), f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exception requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// CreateException handles POST /api/exceptions. New requests start pending.
func (h *Handler) CreateException(c *gin.Context) {
	var req exceptionRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PlannedEntry == nil && req.PlannedExit == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one planned time is required"})
		return
	}

	er := model.ExceptionRequest{
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
		Plate:         plate.Normalize(req.Plate),
		Type:          model.RequestType(req.Type),
		PlannedEntry:  req.PlannedEntry,
		PlannedExit:   req.PlannedExit,
		Reason:        req.Reason,
		Status:        model.RequestPending,
		ValidUntil:    req.ValidUntil,
	}
	if err := h.store.DB().Create(&er).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, er)
}

type decideExceptionRequest struct {
	Actor string `json:"actor" binding:"required"`
}

// ApproveException handles POST /api/exceptions/:id/approve.
func (h *Handler) ApproveException(c *gin.Context) {
	h.decideException(c, model.RequestApproved)
}

// RejectException handles POST /api/exceptions/:id/reject.
func (h *Handler) RejectException(c *gin.Context) {
	h.decideException(c, model.RequestRejected)
}

func (h *Handler) decideException(c *gin.Context, status model.RequestStatus) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req decideExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var er model.ExceptionRequest
	if err := h.store.DB().First(&er, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "exception request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if er.Status != model.RequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
		return
	}

	now := time.Now().UTC()
	er.Status = status
	er.ApprovedBy = req.Actor
	er.ApprovedAt = &now
	if err := h.store.DB().Save(&er).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, er)
}
