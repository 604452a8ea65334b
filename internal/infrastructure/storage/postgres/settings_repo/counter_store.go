package settings_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"tavolo/internal/domain/numbering"
	"tavolo/internal/domain/settings"
)

// Compile-time check that CounterStore implements numbering.Store.
var _ numbering.Store = (*CounterStore)(nil)

// CounterStore adapts the settings key/value store to the order number
// counter. The counter lives under the same key the rest of the app
// settings share the table with.
type CounterStore struct {
	repo settings.Repository
}

// NewCounterStore creates a counter store over the settings repository.
func NewCounterStore(repo settings.Repository) *CounterStore {
	return &CounterStore{repo: repo}
}

// Get returns the persisted counter record, or nil when none exists.
func (s *CounterStore) Get(ctx context.Context) (*numbering.Counter, error) {
	raw, found, err := s.repo.Get(ctx, numbering.SettingsKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var c numbering.Counter
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode counter record: %w", err)
	}

	return &c, nil
}

// Put persists the counter record.
func (s *CounterStore) Put(ctx context.Context, c numbering.Counter) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode counter record: %w", err)
	}

	return s.repo.Put(ctx, numbering.SettingsKey, raw)
}
