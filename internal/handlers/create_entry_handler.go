package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	createmodels "io.winapps.jotly/internal/models/create_entry"
	models "io.winapps.jotly/internal/models/journal"
	"io.winapps.jotly/internal/service"
	"io.winapps.jotly/internal/utils"
)

type EntryHandler struct {
	entries *service.EntryService
	logger  *zap.SugaredLogger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entries *service.EntryService, logger *zap.SugaredLogger) *EntryHandler {
	return &EntryHandler{
		entries: entries,
		logger:  logger,
	}
}

// CreateEntry handles creation of new journal entries
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req createmodels.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request format")
		return
	}

	in := service.CreateInput{
		Mood: models.Mood(req.Mood),
		Note: req.Note,
		Tags: req.Tags,
	}
	if req.Date != "" {
		date, err := utils.ParseDate(req.Date)
		if err != nil {
			h.badRequest(c, err.Error())
			return
		}
		in.Date = &date
	}

	entry, err := h.entries.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "failed to create entry")
		return
	}

	h.logInfo(c, "entry created", "entry_id", entry.ID, "mood", entry.Mood)
	h.created(c, entry)
}
