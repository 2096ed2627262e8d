package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gate-access-backend/internal/model"
	"gate-access-backend/internal/store"
	"gate-access-backend/internal/verify"
)

// ListRecords handles GET /api/records with optional filters.
func (h *Handler) ListRecords(c *gin.Context) {
	f := store.RecordFilter{
		Plate:  c.Query("plate"),
		Action: model.Action(c.Query("action")),
		GateID: c.Query("gate"),
		State:  model.VerificationState(c.Query("state")),
		Limit:  200,
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		f.From = from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		f.To = to
	}

	records, err := h.store.ListAccessRecords(c.Request.Context(), f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetRecord handles GET /api/records/:id.
func (h *Handler) GetRecord(c *gin.Context) {
	rec, err := h.store.GetAccessRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, rec)
}

type verifyRequest struct {
	Actor        string `json:"actor" binding:"required"`
	Note         string `json:"note"`
	GuestName    string `json:"guestName"`
	GuestPhone   string `json:"guestPhone"`
	GuestPurpose string `json:"guestPurpose"`
}

// ApproveRecord handles POST /api/records/:id/approve.
func (h *Handler) ApproveRecord(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var guest *verify.GuestInfo
	if req.GuestName != "" || req.GuestPhone != "" {
		guest = &verify.GuestInfo{Name: req.GuestName, Phone: req.GuestPhone, Purpose: req.GuestPurpose}
	}

	rec, err := h.engine.Approve(c.Request.Context(), c.Param("id"), req.Actor, req.Note, guest)
	if err != nil {
		respondVerifyError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RejectRecord handles POST /api/records/:id/reject.
func (h *Handler) RejectRecord(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.engine.Reject(c.Request.Context(), c.Param("id"), req.Actor, req.Note)
	if err != nil {
		respondVerifyError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type correctRequest struct {
	Plate string `json:"plate" binding:"required"`
	Actor string `json:"actor" binding:"required"`
}

// CorrectRecord handles POST /api/records/:id/correct (AI misrecognition fix).
func (h *Handler) CorrectRecord(c *gin.Context) {
	var req correctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.engine.Correct(c.Request.Context(), c.Param("id"), req.Plate, req.Actor)
	if err != nil {
		respondVerifyError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func respondVerifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, verify.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, verify.ErrGuestInfoRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
