package client

import (
	"context"
	"sync"

	createmodels "io.winapps.jotly/internal/models/create_entry"
	models "io.winapps.jotly/internal/models/journal"
	updatemodels "io.winapps.jotly/internal/models/update_entry"
)

// Store serializes operations against the API and keeps State in sync.
// An operation started while another is in flight waits for it.
type Store struct {
	mu    sync.Mutex
	api   *API
	state State
}

// NewStore creates a store with an empty state.
func NewStore(api *API) *Store {
	return &Store{api: api}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) dispatch(a Action) {
	s.state = Reduce(s.state, a)
}

func (s *Store) fail(err error) error {
	s.dispatch(Action{Type: SetError, Err: err})
	return err
}

func (s *Store) syncRecent() {
	s.dispatch(Action{Type: SetRecentEntries, Entries: firstN(s.state.Entries, RecentLimit)})
}

// FetchEntries replaces the collection with the server's full list.
func (s *Store) FetchEntries(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatch(Action{Type: SetLoading, Loading: true})
	entries, err := s.api.ListEntries(ctx, Query{})
	if err != nil {
		return s.fail(err)
	}
	s.dispatch(Action{Type: SetEntries, Entries: entries})
	s.syncRecent()
	return nil
}

// FetchMoodStats refreshes the mood aggregate.
func (s *Store) FetchMoodStats(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchMoodStats(ctx)
}

func (s *Store) fetchMoodStats(ctx context.Context) error {
	stats, err := s.api.MoodStats(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.dispatch(Action{Type: SetMoodStats, MoodStats: stats})
	return nil
}

// CreateEntry creates an entry on the server and prepends it locally.
func (s *Store) CreateEntry(ctx context.Context, req createmodels.CreateEntryRequest) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatch(Action{Type: SetLoading, Loading: true})
	e, err := s.api.CreateEntry(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}
	s.dispatch(Action{Type: AddEntry, Entry: *e})
	s.afterMutation(ctx)
	return e, nil
}

// UpdateEntry updates an entry on the server and replaces it locally.
func (s *Store) UpdateEntry(ctx context.Context, id string, req updatemodels.UpdateEntryRequest) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatch(Action{Type: SetLoading, Loading: true})
	e, err := s.api.UpdateEntry(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}
	s.dispatch(Action{Type: UpdateEntry, Entry: *e})
	s.afterMutation(ctx)
	return e, nil
}

// DeleteEntry deletes an entry on the server and removes it locally.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatch(Action{Type: SetLoading, Loading: true})
	if err := s.api.DeleteEntry(ctx, id); err != nil {
		return s.fail(err)
	}
	s.dispatch(Action{Type: DeleteEntry, ID: id})
	s.afterMutation(ctx)
	return nil
}

// afterMutation keeps the derived views current. A failed stats refresh is
// recorded in State.Err but does not undo the mutation.
func (s *Store) afterMutation(ctx context.Context) {
	s.syncRecent()
	_ = s.fetchMoodStats(ctx)
}

// GetEntry fetches one entry without touching the state.
func (s *Store) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.GetEntry(ctx, id)
}

// ClearError empties the error slot.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(Action{Type: ClearError})
}
