package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "io.winapps.jotly/internal/models/journal"
	"io.winapps.jotly/internal/service"
	"io.winapps.jotly/internal/store"
	"io.winapps.jotly/internal/store/memory"
)

var now = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   string          `json:"error"`
	Fields  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func newRouter(t *testing.T, st store.EntryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewEntryService(st, service.WithClock(func() time.Time { return now }))
	r := gin.New()
	NewEntryHandler(svc, nil).RegisterRoutes(r.Group("/api"))
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func createEntry(t *testing.T, r http.Handler, body gin.H) models.Entry {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/entries", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Entry](t, env.Data)
}

func TestCreateEntry(t *testing.T) {
	r := newRouter(t, memory.NewEntryStore(memory.WithClock(func() time.Time { return now })))

	w, env := do(t, r, http.MethodPost, "/api/entries", gin.H{"mood": "😊", "note": "good day", "tags": []string{" work ", ""}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	e := decode[models.Entry](t, env.Data)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, now, e.Date)
	assert.Equal(t, []string{"work"}, e.Tags)

	e = createEntry(t, r, gin.H{"mood": "😔", "note": "x", "date": "2024-01-02"})
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), e.Date)
}

func TestCreateEntry_Rejected(t *testing.T) {
	r := newRouter(t, memory.NewEntryStore())

	w, env := do(t, r, http.MethodPost, "/api/entries", gin.H{"mood": "🙃", "note": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "Entry validation failed")
	assert.Len(t, env.Fields, 2)

	w, env = do(t, r, http.MethodPost, "/api/entries", gin.H{"mood": "😊", "note": strings.Repeat("a", 1001)})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "note", env.Fields[0].Field)

	w, _ = do(t, r, http.MethodPost, "/api/entries", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/entries", gin.H{"mood": "😊", "note": "x", "date": "someday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Count)
}

func TestListEntries_Filters(t *testing.T) {
	r := newRouter(t, memory.NewEntryStore())
	createEntry(t, r, gin.H{"mood": "😊", "note": "a", "date": "2024-01-01", "tags": []string{"work"}})
	createEntry(t, r, gin.H{"mood": "😊", "note": "b", "date": "2024-01-03", "tags": []string{"family"}})
	createEntry(t, r, gin.H{"mood": "😔", "note": "c", "date": "2024-01-05", "tags": []string{"work"}})

	w, env := do(t, r, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]models.Entry](t, env.Data)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Note)
	assert.Equal(t, 3, *env.Count)

	_, env = do(t, r, http.MethodGet, "/api/entries?mood=%F0%9F%98%8A&tag=work", nil)
	got := decode[[]models.Entry](t, env.Data)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Note)

	_, env = do(t, r, http.MethodGet, "/api/entries?startDate=2024-01-02&endDate=2024-01-05", nil)
	got = decode[[]models.Entry](t, env.Data)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Note)

	w, env = do(t, r, http.MethodGet, "/api/entries?startDate=notadate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "startDate")
}

func TestGetUpdateDelete(t *testing.T) {
	clock := now
	st := memory.NewEntryStore(memory.WithClock(func() time.Time { return clock }))
	r := newRouter(t, st)
	e := createEntry(t, r, gin.H{"mood": "😴", "note": "tired", "tags": []string{"sleep"}})

	w, env := do(t, r, http.MethodGet, "/api/entries/"+e.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, e.ID, decode[models.Entry](t, env.Data).ID)

	clock = now.Add(time.Minute)
	w, env = do(t, r, http.MethodPut, "/api/entries/"+e.ID, gin.H{"note": "rested"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Entry](t, env.Data)
	assert.Equal(t, "rested", updated.Note)
	assert.Equal(t, models.MoodTired, updated.Mood)
	assert.Equal(t, []string{"sleep"}, updated.Tags)
	assert.Equal(t, e.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(e.UpdatedAt))

	w, _ = do(t, r, http.MethodPut, "/api/entries/"+e.ID, gin.H{"mood": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/entries/"+e.ID, gin.H{"date": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodDelete, "/api/entries/"+e.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, string(env.Data))

	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, `{"note":"x"}`},
		{http.MethodDelete, ""},
	} {
		w, env = do(t, r, tc.method, "/api/entries/"+e.ID, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method)
		assert.False(t, env.Success)
	}
}

func TestStatsAndTags(t *testing.T) {
	r := newRouter(t, memory.NewEntryStore())
	createEntry(t, r, gin.H{"mood": "😊", "note": "a", "date": "2024-05-01", "tags": []string{"work"}})
	createEntry(t, r, gin.H{"mood": "😊", "note": "b", "date": "2024-05-10", "tags": []string{"family", "work"}})
	createEntry(t, r, gin.H{"mood": "😔", "note": "c", "date": "2024-03-01"})

	w, env := do(t, r, http.MethodGet, "/api/entries/stats/mood", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"mood":"😊","count":2},{"mood":"😔","count":1}]`, string(env.Data))

	_, env = do(t, r, http.MethodGet, "/api/entries/stats/date-range", nil)
	got := decode[[]models.Entry](t, env.Data)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Note)
	assert.Equal(t, "b", got[1].Note)

	_, env = do(t, r, http.MethodGet, "/api/entries/stats/date-range?startDate=2024-01-01&endDate=2024-05-05", nil)
	got = decode[[]models.Entry](t, env.Data)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Note)

	w, _ = do(t, r, http.MethodGet, "/api/entries/stats/date-range?endDate=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = do(t, r, http.MethodGet, "/api/entries/tags", nil)
	assert.JSONEq(t, `["family","work"]`, string(env.Data))
	assert.Equal(t, 2, *env.Count)
}

func TestExportEntries(t *testing.T) {
	r := newRouter(t, memory.NewEntryStore())
	createEntry(t, r, gin.H{"mood": "😇", "note": "grateful, really", "date": "2024-05-01", "tags": []string{"a", "b"}})

	w, _ := do(t, r, http.MethodGet, "/api/entries/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "grateful, really", rows[1][3])
	assert.Equal(t, "a;b", rows[1][4])
}

type failingStore struct{ store.EntryStore }

func (failingStore) FindMany(context.Context, store.Filter) ([]models.Entry, error) {
	return nil, errors.New("connection refused to 10.0.0.5")
}

func TestServerErrorIsGeneric(t *testing.T) {
	r := newRouter(t, failingStore{memory.NewEntryStore()})

	w, env := do(t, r, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", env.Error)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", NewHealthHandler(map[string]Pinger{"store": pinger{}}).Health)
	r.GET("/down", NewHealthHandler(map[string]Pinger{"redis": pinger{errors.New("down")}}).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
