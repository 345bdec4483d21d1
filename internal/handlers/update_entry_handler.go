package handlers

import (
	"github.com/gin-gonic/gin"

	models "io.winapps.jotly/internal/models/journal"
	updatemodels "io.winapps.jotly/internal/models/update_entry"
	"io.winapps.jotly/internal/utils"
)

// UpdateEntry applies a partial update; omitted fields are left unchanged
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	id := c.Param("id")

	var req updatemodels.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request format")
		return
	}

	patch := models.Patch{Note: req.Note, Tags: req.Tags}
	if req.Mood != nil {
		mood := models.Mood(*req.Mood)
		patch.Mood = &mood
	}
	if req.Date != nil {
		date, err := utils.ParseDate(*req.Date)
		if err != nil {
			h.badRequest(c, err.Error())
			return
		}
		patch.Date = &date
	}

	entry, err := h.entries.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, err, "failed to update entry", "entry_id", id)
		return
	}

	h.logInfo(c, "entry updated", "entry_id", id)
	h.ok(c, entry)
}
