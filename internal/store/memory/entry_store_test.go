package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"io.winapps.jotly/internal/errs"
	models "io.winapps.jotly/internal/models/journal"
	"io.winapps.jotly/internal/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func day(d int) time.Time { return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC) }

func newStore(t *testing.T) (*EntryStore, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	return NewEntryStore(WithClock(clk.Now)), clk
}

func mustInsert(t *testing.T, s *EntryStore, date time.Time, mood models.Mood, tags ...string) *models.Entry {
	t.Helper()
	e, err := s.Insert(context.Background(), models.Entry{Date: date, Mood: mood, Note: "note", Tags: tags})
	require.NoError(t, err)
	return e
}

func TestInsert_FindByIDRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	in := models.Entry{Date: day(1), Mood: models.MoodHappy, Note: "good day", Tags: []string{"work", "sun"}}
	created, err := s.Insert(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in.Mood, got.Mood)
	assert.Equal(t, in.Note, got.Note)
	assert.Equal(t, in.Tags, got.Tags)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestInsert_ValidationFailures(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	cases := []models.Entry{
		{Date: day(1), Mood: "🙂", Note: "x"},
		{Date: day(1), Mood: models.MoodHappy, Note: ""},
		{Date: day(1), Mood: models.MoodHappy, Note: strings.Repeat("x", 1001)},
	}
	for _, c := range cases {
		_, err := s.Insert(ctx, c)
		assert.True(t, errs.IsValidation(err), "expected validation error for %+v", c)
	}
	all, err := s.FindMany(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFindByID_Absent(t *testing.T) {
	s, _ := newStore(t)
	got, err := s.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindMany_MoodFilterScenario(t *testing.T) {
	s, _ := newStore(t)
	jan1 := mustInsert(t, s, day(1), models.MoodHappy)
	mustInsert(t, s, day(2), models.MoodSad)
	jan3 := mustInsert(t, s, day(3), models.MoodHappy)

	got, err := s.FindMany(context.Background(), store.Filter{Mood: models.MoodHappy})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, jan3.ID, got[0].ID)
	assert.Equal(t, jan1.ID, got[1].ID)
}

func TestFindMany_TagFilterScenario(t *testing.T) {
	s, _ := newStore(t)
	e := mustInsert(t, s, day(1), models.MoodSad, "work", "stress")

	got, err := s.FindMany(context.Background(), store.Filter{Tag: "stress"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e.ID, got[0].ID)

	got, err = s.FindMany(context.Background(), store.Filter{Tag: "family"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindMany_DateRangeInclusive(t *testing.T) {
	s, _ := newStore(t)
	for d := 1; d <= 5; d++ {
		mustInsert(t, s, day(d), models.MoodCool)
	}
	start, end := day(2), day(4)

	got, err := s.FindMany(context.Background(), store.Filter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, day(4), got[0].Date)
	assert.Equal(t, day(3), got[1].Date)
	assert.Equal(t, day(2), got[2].Date)

	got, err = s.FindMany(context.Background(), store.Filter{StartDate: &start, EndDate: &end, Order: store.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, day(2), got[0].Date)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _ := newStore(t)
	note := "x"
	_, err := s.Update(context.Background(), "nope", models.Patch{Note: &note})
	require.ErrorIs(t, err, errs.ErrNotFound)

	all, _ := s.FindMany(context.Background(), store.Filter{})
	assert.Empty(t, all)
}

func TestUpdate_AdvancesUpdatedAt(t *testing.T) {
	s, clk := newStore(t)
	e := mustInsert(t, s, day(1), models.MoodHappy)

	clk.Advance(time.Minute)
	note := "changed"
	up, err := s.Update(context.Background(), e.ID, models.Patch{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "changed", up.Note)
	assert.Equal(t, e.CreatedAt, up.CreatedAt)
	assert.True(t, up.UpdatedAt.After(e.UpdatedAt))
	assert.Equal(t, e.Mood, up.Mood)
}

func TestUpdate_ClockSkewNeverMovesBackwards(t *testing.T) {
	s, clk := newStore(t)
	e := mustInsert(t, s, day(1), models.MoodHappy)

	clk.Advance(-time.Hour)
	mood := models.MoodSad
	up, err := s.Update(context.Background(), e.ID, models.Patch{Mood: &mood})
	require.NoError(t, err)
	assert.False(t, up.UpdatedAt.Before(e.UpdatedAt))
}

func TestUpdate_RevalidatesMergedRecord(t *testing.T) {
	s, _ := newStore(t)
	e := mustInsert(t, s, day(1), models.MoodHappy)

	bad := models.Mood("nope")
	_, err := s.Update(context.Background(), e.ID, models.Patch{Mood: &bad})
	require.True(t, errs.IsValidation(err))

	got, _ := s.FindByID(context.Background(), e.ID)
	assert.Equal(t, models.MoodHappy, got.Mood)
}

func TestDelete_SecondDeleteFails(t *testing.T) {
	s, _ := newStore(t)
	e := mustInsert(t, s, day(1), models.MoodHappy)
	keep := mustInsert(t, s, day(2), models.MoodSad)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, e.ID))
	require.ErrorIs(t, s.Delete(ctx, e.ID), errs.ErrNotFound)

	got, err := s.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := s.FindMany(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)
}

func TestAggregateMoodCounts(t *testing.T) {
	s, _ := newStore(t)
	mustInsert(t, s, day(1), models.MoodHappy)
	mustInsert(t, s, day(2), models.MoodHappy)
	mustInsert(t, s, day(3), models.MoodSad)

	got, err := s.AggregateMoodCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.MoodCount{
		{Mood: models.MoodHappy, Count: 2},
		{Mood: models.MoodSad, Count: 1},
	}, got)
}

func TestUniqueTags(t *testing.T) {
	s, _ := newStore(t)
	mustInsert(t, s, day(1), models.MoodHappy, "work", " stress ")
	mustInsert(t, s, day(2), models.MoodSad, "family", "work")

	got, err := s.UniqueTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"family", "stress", "work"}, got)
}

func TestReturnedEntriesAreCopies(t *testing.T) {
	s, _ := newStore(t)
	e := mustInsert(t, s, day(1), models.MoodHappy, "a")
	e.Tags[0] = "mutated"

	got, _ := s.FindByID(context.Background(), e.ID)
	assert.Equal(t, []string{"a"}, got.Tags)
}
