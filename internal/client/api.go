// Package client is a Go client for the Jotly REST API with a local,
// reducer-driven view of the entry collection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	createmodels "io.winapps.jotly/internal/models/create_entry"
	models "io.winapps.jotly/internal/models/journal"
	updatemodels "io.winapps.jotly/internal/models/update_entry"
)

// DefaultBaseURL is used when no server address is configured.
const DefaultBaseURL = "http://localhost:9091/api"

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jotly api: %d %s", e.StatusCode, e.Message)
}

// Query holds the server-side list filters; empty fields are omitted.
type Query struct {
	Mood      string
	Tag       string
	StartDate string
	EndDate   string
}

func (q Query) values() url.Values {
	v := url.Values{}
	for k, val := range map[string]string{
		"mood": q.Mood, "tag": q.Tag, "startDate": q.StartDate, "endDate": q.EndDate,
	} {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// API issues requests against a Jotly server.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI creates a client for baseURL, e.g. http://localhost:9091/api.
func NewAPI(baseURL string) *API {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// HTTPClient exposes the underlying client so callers can swap transports.
func (a *API) HTTPClient() *http.Client { return a.http }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   string          `json:"error"`
}

func (a *API) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := a.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// ListEntries calls GET /entries.
func (a *API) ListEntries(ctx context.Context, q Query) ([]models.Entry, error) {
	entries := []models.Entry{}
	if err := a.do(ctx, http.MethodGet, "/entries", q.values(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetEntry calls GET /entries/{id}.
func (a *API) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	var e models.Entry
	if err := a.do(ctx, http.MethodGet, "/entries/"+url.PathEscape(id), nil, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry calls POST /entries.
func (a *API) CreateEntry(ctx context.Context, req createmodels.CreateEntryRequest) (*models.Entry, error) {
	var e models.Entry
	if err := a.do(ctx, http.MethodPost, "/entries", nil, req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEntry calls PUT /entries/{id}.
func (a *API) UpdateEntry(ctx context.Context, id string, req updatemodels.UpdateEntryRequest) (*models.Entry, error) {
	var e models.Entry
	if err := a.do(ctx, http.MethodPut, "/entries/"+url.PathEscape(id), nil, req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry calls DELETE /entries/{id}.
func (a *API) DeleteEntry(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), nil, nil, nil)
}

// MoodStats calls GET /entries/stats/mood.
func (a *API) MoodStats(ctx context.Context) ([]models.MoodCount, error) {
	stats := []models.MoodCount{}
	if err := a.do(ctx, http.MethodGet, "/entries/stats/mood", nil, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// DateRange calls GET /entries/stats/date-range.
func (a *API) DateRange(ctx context.Context, startDate, endDate string) ([]models.Entry, error) {
	entries := []models.Entry{}
	q := Query{StartDate: startDate, EndDate: endDate}.values()
	if err := a.do(ctx, http.MethodGet, "/entries/stats/date-range", q, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UniqueTags calls GET /entries/tags.
func (a *API) UniqueTags(ctx context.Context) ([]string, error) {
	tags := []string{}
	if err := a.do(ctx, http.MethodGet, "/entries/tags", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
