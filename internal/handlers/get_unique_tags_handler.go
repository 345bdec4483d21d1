package handlers

import (
	"github.com/gin-gonic/gin"
)

// GetUniqueTags returns every distinct tag in use, sorted
func (h *EntryHandler) GetUniqueTags(c *gin.Context) {
	tags, err := h.entries.UniqueTags(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to fetch unique tags")
		return
	}
	h.okCount(c, tags, len(tags))
}
