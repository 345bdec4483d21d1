package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"io.winapps.jotly/internal/store"
)

// ExportHeader is the first CSV row written by Export.
var ExportHeader = []string{"id", "date", "mood", "note", "tags", "createdAt", "updatedAt"}

// ExportTagSeparator joins the tags of an entry into one CSV cell.
const ExportTagSeparator = ";"

// Export writes the entries matching f as CSV and returns how many rows
// were written, excluding the header.
func (s *EntryService) Export(ctx context.Context, w io.Writer, f store.Filter) (int, error) {
	entries, err := s.List(ctx, f)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.ID,
			e.Date.UTC().Format(time.RFC3339),
			string(e.Mood),
			e.Note,
			strings.Join(e.Tags, ExportTagSeparator),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	s.logger.Infow("entries exported", "count", len(entries))
	return len(entries), nil
}
