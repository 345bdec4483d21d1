package handlers

import (
	"github.com/gin-gonic/gin"
)

// GetEntry handles fetching a single journal entry
func (h *EntryHandler) GetEntry(c *gin.Context) {
	id := c.Param("id")

	entry, err := h.entries.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to fetch entry", "entry_id", id)
		return
	}
	h.ok(c, entry)
}
