package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"io.winapps.jotly/internal/errs"
	models "io.winapps.jotly/internal/models/journal"
	"io.winapps.jotly/internal/store"
	"io.winapps.jotly/internal/validation"
)

const entryColumns = `id, date, mood, note, tags, created_at, updated_at`

const (
	insertEntrySQL = `INSERT INTO entries (` + entryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectEntrySQL = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	lockEntrySQL   = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 FOR UPDATE`
	updateEntrySQL = `UPDATE entries SET date = $2, mood = $3, note = $4, tags = $5, updated_at = $6 WHERE id = $1`
	deleteEntrySQL = `DELETE FROM entries WHERE id = $1`
	moodCountsSQL  = `SELECT mood, COUNT(*) AS count FROM entries GROUP BY mood ORDER BY count DESC, mood COLLATE "C" ASC`
	uniqueTagsSQL  = `SELECT tag FROM (SELECT DISTINCT unnest(tags) AS tag FROM entries) t ORDER BY tag COLLATE "C"`
)

// EntryStore implements store.EntryStore using PostgreSQL.
type EntryStore struct {
	db  *DB
	now func() time.Time
}

var _ store.EntryStore = (*EntryStore)(nil)

// NewEntryStore constructs an entry store.
func NewEntryStore(db *DB) *EntryStore {
	return &EntryStore{db: db, now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (s *EntryStore) WithClock(now func() time.Time) *EntryStore {
	s.now = now
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var (
		e    models.Entry
		mood string
	)
	if err := row.Scan(&e.ID, &e.Date, &mood, &e.Note, &e.Tags, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return models.Entry{}, err
	}
	e.Mood = models.Mood(mood)
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}

// Postgres timestamps keep microseconds. Values handed back to callers are
// cut to the same precision so they match a later read.
func toMicros(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }

func (s *EntryStore) stamp() time.Time { return toMicros(s.now()) }

// Insert validates e, assigns its id and timestamps and stores it.
func (s *EntryStore) Insert(ctx context.Context, e models.Entry) (*models.Entry, error) {
	if err := validation.PrepareEntry(&e); err != nil {
		return nil, err
	}
	now := s.stamp()
	e.Date = toMicros(e.Date)
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.db.Pool.Exec(ctx, insertEntrySQL,
		e.ID, e.Date, string(e.Mood), e.Note, e.Tags, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return &e, nil
}

// FindByID returns nil, nil when the entry does not exist or id is not a UUID.
func (s *EntryStore) FindByID(ctx context.Context, id string) (*models.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	e, err := scanEntry(s.db.Pool.QueryRow(ctx, selectEntrySQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return &e, nil
}

// buildFindQuery renders the WHERE clause for f with positional arguments.
func buildFindQuery(f store.Filter) (string, []any) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Mood != "" {
		conditions = append(conditions, "mood = "+arg(string(f.Mood)))
	}
	if f.Tag != "" {
		conditions = append(conditions, arg(f.Tag)+" = ANY(tags)")
	}
	if f.StartDate != nil {
		conditions = append(conditions, "date >= "+arg(*f.StartDate))
	}
	if f.EndDate != nil {
		conditions = append(conditions, "date <= "+arg(*f.EndDate))
	}

	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if f.Order == store.OrderAsc {
		query += " ORDER BY date ASC"
	} else {
		query += " ORDER BY date DESC"
	}
	return query, args
}

// FindMany returns every entry matching f.
func (s *EntryStore) FindMany(ctx context.Context, f store.Filter) ([]models.Entry, error) {
	query, args := buildFindQuery(f)
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Update locks the row, merges p, re-validates and writes the result.
func (s *EntryStore) Update(ctx context.Context, id string, p models.Patch) (updated *models.Entry, err error) {
	if _, perr := uuid.Parse(id); perr != nil {
		return nil, errs.ErrNotFound
	}

	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			updated, err = nil, fmt.Errorf("commit update: %w", e)
		}
	}()

	cur, err := scanEntry(tx.QueryRow(ctx, lockEntrySQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}

	next := p.Apply(cur)
	if err = validation.PrepareEntry(&next); err != nil {
		return nil, err
	}
	next.Date = toMicros(next.Date)
	next.UpdatedAt = store.NextUpdatedAt(cur.UpdatedAt, s.stamp())

	if _, err = tx.Exec(ctx, updateEntrySQL,
		id, next.Date, string(next.Mood), next.Note, next.Tags, next.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return &next, nil
}

// Delete removes the entry; errs.ErrNotFound when nothing was deleted.
func (s *EntryStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.ErrNotFound
	}
	tag, err := s.db.Pool.Exec(ctx, deleteEntrySQL, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// AggregateMoodCounts groups entries by mood, most frequent first.
func (s *EntryStore) AggregateMoodCounts(ctx context.Context) ([]models.MoodCount, error) {
	rows, err := s.db.Pool.Query(ctx, moodCountsSQL)
	if err != nil {
		return nil, fmt.Errorf("aggregate moods: %w", err)
	}
	defer rows.Close()

	out := []models.MoodCount{}
	for rows.Next() {
		var (
			mood  string
			count int64
		)
		if err := rows.Scan(&mood, &count); err != nil {
			return nil, fmt.Errorf("scan mood count: %w", err)
		}
		out = append(out, models.MoodCount{Mood: models.Mood(mood), Count: int(count)})
	}
	return out, rows.Err()
}

// UniqueTags returns every distinct tag in byte order.
func (s *EntryStore) UniqueTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, uniqueTagsSQL)
	if err != nil {
		return nil, fmt.Errorf("unique tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Ping checks connectivity.
func (s *EntryStore) Ping(ctx context.Context) error {
	return s.db.Pool.Ping(ctx)
}
