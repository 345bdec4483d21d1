package handlers

import (
	"github.com/gin-gonic/gin"

	listmodels "io.winapps.jotly/internal/models/list_entries"
	"io.winapps.jotly/internal/utils"
)

// GetMoodStats returns entry counts grouped by mood, most frequent first
func (h *EntryHandler) GetMoodStats(c *gin.Context) {
	stats, err := h.entries.MoodStats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to aggregate mood stats")
		return
	}
	h.ok(c, stats)
}

// GetDateRangeStats returns entries within the requested window, oldest
// first. The window defaults to the last 30 days.
func (h *EntryHandler) GetDateRangeStats(c *gin.Context) {
	var q listmodels.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "Invalid query parameters")
		return
	}

	start, err := utils.ParseOptionalDate(q.StartDate)
	if err != nil {
		h.badRequest(c, "startDate: "+err.Error())
		return
	}
	end, err := utils.ParseOptionalDate(q.EndDate)
	if err != nil {
		h.badRequest(c, "endDate: "+err.Error())
		return
	}

	entries, err := h.entries.DateRange(c.Request.Context(), start, end)
	if err != nil {
		h.fail(c, err, "failed to fetch date range")
		return
	}
	h.okCount(c, entries, len(entries))
}
