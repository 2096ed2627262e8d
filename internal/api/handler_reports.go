package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gate-access-backend/internal/compliance"
	"gate-access-backend/internal/model"
	"gate-access-backend/internal/shift"
	"gate-access-backend/internal/store"
)

// complianceRow is one record scored against the active shift configuration.
type complianceRow struct {
	Record     model.AccessRecord `json:"record"`
	Compliance compliance.Result  `json:"compliance"`
}

// ComplianceReport handles GET /api/reports/compliance. Each record in range
// is matched to a shift and scored; records that consumed an exception
// request are never counted as violations.
func (h *Handler) ComplianceReport(c *gin.Context) {
	f := store.RecordFilter{
		Plate:  c.Query("plate"),
		GateID: c.Query("gate"),
		Limit:  500,
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

	shifts, err := h.shifts.Active(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shift configuration"})
		return
	}

	rows := make([]complianceRow, 0, len(records))
	violations := 0
	for i := range records {
		rec := &records[i]
		matched := shift.Match(shifts, rec.EventAt, rec.Action)
		result := compliance.Score(rec, matched)
		if result.IsViolation() {
			violations++
		}
		rows = append(rows, complianceRow{Record: *rec, Compliance: result})
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      len(rows),
		"violations": violations,
		"rows":       rows,
	})
}
