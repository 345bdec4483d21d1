package handlers

import (
	"github.com/gin-gonic/gin"

	listmodels "io.winapps.jotly/internal/models/list_entries"
	models "io.winapps.jotly/internal/models/journal"
	"io.winapps.jotly/internal/store"
	"io.winapps.jotly/internal/utils"
)

// ListEntries returns every entry matching the optional mood, tag and date
// range query parameters, newest first.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	entries, err := h.entries.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "failed to list entries")
		return
	}
	h.okCount(c, entries, len(entries))
}

// bindFilter parses the list query. It writes a 400 and returns false when
// a date cannot be parsed.
func (h *EntryHandler) bindFilter(c *gin.Context) (store.Filter, bool) {
	var q listmodels.ListEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "Invalid query parameters")
		return store.Filter{}, false
	}

	start, err := utils.ParseOptionalDate(q.StartDate)
	if err != nil {
		h.badRequest(c, "startDate: "+err.Error())
		return store.Filter{}, false
	}
	end, err := utils.ParseOptionalDate(q.EndDate)
	if err != nil {
		h.badRequest(c, "endDate: "+err.Error())
		return store.Filter{}, false
	}

	return store.Filter{
		Mood:      models.Mood(q.Mood),
		Tag:       q.Tag,
		StartDate: start,
		EndDate:   end,
	}, true
}
