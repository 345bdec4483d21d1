package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExportEntries streams the entries matching the list filters as a CSV
// attachment.
func (h *EntryHandler) ExportEntries(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	// Buffer first so a failed query still yields a JSON error response.
	var buf bytes.Buffer
	n, err := h.entries.Export(c.Request.Context(), &buf, filter)
	if err != nil {
		h.fail(c, err, "failed to export entries")
		return
	}

	filename := fmt.Sprintf("jotly-export-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Entry-Count", fmt.Sprint(n))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
