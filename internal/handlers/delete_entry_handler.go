package handlers

import (
	"github.com/gin-gonic/gin"
)

// DeleteEntry permanently removes an entry
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")

	if err := h.entries.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "failed to delete entry", "entry_id", id)
		return
	}

	h.logInfo(c, "entry deleted", "entry_id", id)
	h.ok(c, gin.H{})
}
