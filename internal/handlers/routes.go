package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the entry endpoints on rg.
func (h *EntryHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/entries", h.CreateEntry)
	rg.GET("/entries", h.ListEntries)
	rg.GET("/entries/stats/mood", h.GetMoodStats)
	rg.GET("/entries/stats/date-range", h.GetDateRangeStats)
	rg.GET("/entries/tags", h.GetUniqueTags)
	rg.GET("/entries/export", h.ExportEntries)
	rg.GET("/entries/:id", h.GetEntry)
	rg.PUT("/entries/:id", h.UpdateEntry)
	rg.DELETE("/entries/:id", h.DeleteEntry)
}
