package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gate-access-backend/internal/model"
	"gate-access-backend/internal/verify"
)

// eventRequest mirrors the payload pushed by the recognition service. Media
// may arrive as already-resolved URLs or as raw base64 payloads; raw payloads
// are kept as opaque references and never block verification.
type eventRequest struct {
	LicensePlate string     `json:"licensePlate" binding:"required"`
	Action       string     `json:"action" binding:"required,oneof=entry exit"`
	GateID       string     `json:"gateId"`
	GateName     string     `json:"gateName"`
	CameraID     string     `json:"cameraId"`
	Confidence   float64    `json:"confidence"`
	ImageURL     string     `json:"imageUrl"`
	VideoURL     string     `json:"videoUrl"`
	ImagePayload string     `json:"imagePayload"`
	VideoPayload string     `json:"videoPayload"`
	Timestamp    *time.Time `json:"timestamp"`
}

// PostEvent handles POST /api/events: one recognition event in, one access
// record out.
func (h *Handler) PostEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev := verify.Event{
		Plate:      req.LicensePlate,
		Action:     model.Action(req.Action),
		GateID:     req.GateID,
		GateName:   req.GateName,
		CameraID:   req.CameraID,
		Confidence: req.Confidence,
		ImageRef:   mediaRef(req.ImageURL, req.ImagePayload),
		VideoRef:   mediaRef(req.VideoURL, req.VideoPayload),
	}
	if req.Timestamp != nil {
		ev.Timestamp = *req.Timestamp
	}

	rec, err := h.engine.ProcessEvent(c.Request.Context(), ev)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// mediaRef prefers a resolved URL; a raw payload is handed to the async media
// pipeline and referenced by a placeholder until resolved.
func mediaRef(url, payload string) string {
	if url != "" {
		return url
	}
	if payload != "" {
		return "inline:pending"
	}
	return ""
}
