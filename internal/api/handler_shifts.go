package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gate-access-backend/internal/model"
	"gate-access-backend/internal/store"
)

type shiftRequest struct {
	Name                  string `json:"name" binding:"required"`
	StartTime             string `json:"startTime" binding:"required"`
	EndTime               string `json:"endTime" binding:"required"`
	Weekdays              string `json:"weekdays" binding:"required"`
	LateToleranceMinutes  int    `json:"lateToleranceMinutes"`
	EarlyToleranceMinutes int    `json:"earlyToleranceMinutes"`
	Active                bool   `json:"active"`
	Position              int    `json:"position"`
}

// ListShifts handles GET /api/shifts. All shifts are returned; only active
// ones participate in matching.
func (h *Handler) ListShifts(c *gin.Context) {
	var shifts []model.Shift
	if err := h.store.DB().Order("position ASC, id ASC").Find(&shifts).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shifts"})
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// CreateShift handles POST /api/shifts.
func (h *Handler) CreateShift(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sh := model.Shift{
		Name:                  req.Name,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		Weekdays:              req.Weekdays,
		LateToleranceMinutes:  req.LateToleranceMinutes,
		EarlyToleranceMinutes: req.EarlyToleranceMinutes,
		Active:                req.Active,
		Position:              req.Position,
	}
	if err := h.store.DB().Create(&sh).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.shifts.Invalidate()
	c.JSON(http.StatusCreated, sh)
}

// UpdateShift handles PUT /api/shifts/:id.
func (h *Handler) UpdateShift(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID"})
		return
	}

	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sh model.Shift
	if err := h.store.DB().First(&sh, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shift not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	sh.Name = req.Name
	sh.StartTime = req.StartTime
	sh.EndTime = req.EndTime
	sh.Weekdays = req.Weekdays
	sh.LateToleranceMinutes = req.LateToleranceMinutes
	sh.EarlyToleranceMinutes = req.EarlyToleranceMinutes
	sh.Active = req.Active
	sh.Position = req.Position
	if err := h.store.DB().Save(&sh).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.shifts.Invalidate()
	c.JSON(http.StatusOK, sh)
}

// ActivateShift handles POST /api/shifts/:id/activate, atomically making the
// shift the only active one.
func (h *Handler) ActivateShift(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID"})
		return
	}

	if err := h.store.SetActiveShift(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shift not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	h.shifts.Invalidate()
	c.Status(http.StatusNoContent)
}
