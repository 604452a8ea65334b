// Package numbering issues the per-day sequential order numbers shown to
// guests. The counter lives in the settings store under one key and
// rolls over lazily: the first number requested on a new calendar day is
// 1 regardless of when the previous day ended.
//
// The read-modify-write runs inside a transaction, which is sufficient
// for the single-terminal deployment this service targets.
package numbering

import (
	"context"
	"fmt"

	"tavolo/internal/core/businessday"
	"tavolo/internal/core/tx"
)

// SettingsKey is the settings-store key holding the counter record.
const SettingsKey = "orderCounter"

// Counter is the persisted counter record.
type Counter struct {
	Date    businessday.Date `json:"date"`
	Counter int              `json:"counter"`
}

// Store persists the counter record. Get returns nil when no record
// exists yet.
type Store interface {
	Get(ctx context.Context) (*Counter, error)
	Put(ctx context.Context, c Counter) error
}

// Service issues and resets order numbers.
type Service struct {
	store     Store
	txManager tx.Manager
	clock     businessday.Clock
}

// NewService creates a numbering service.
func NewService(store Store, txManager tx.Manager, clock businessday.Clock) *Service {
	return &Service{
		store:     store,
		txManager: txManager,
		clock:     clock,
	}
}

// Next returns the next order number for the current day. A missing or
// stale record (previous day) restarts the sequence at 1.
func (s *Service) Next(ctx context.Context) (int, error) {
	var number int
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.store.Get(ctx)
		if err != nil {
			return fmt.Errorf("load order counter: %w", err)
		}

		today := businessday.Today(s.clock)
		if entry == nil || entry.Date != today {
			number = 1
			return s.store.Put(ctx, Counter{Date: today, Counter: 1})
		}

		number = entry.Counter + 1
		return s.store.Put(ctx, Counter{Date: today, Counter: number})
	})
	if err != nil {
		return 0, err
	}
	return number, nil
}

// Reset sets the counter to 0 for the given date (today when empty), so
// the next issued number is 1. Day close calls this after draining the
// day's orders.
func (s *Service) Reset(ctx context.Context, date businessday.Date) error {
	if date == "" {
		date = businessday.Today(s.clock)
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.store.Put(ctx, Counter{Date: date, Counter: 0})
	})
}

// Current returns the last issued number for today, or 0 when the
// counter is absent or stale.
func (s *Service) Current(ctx context.Context) (int, error) {
	entry, err := s.store.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("load order counter: %w", err)
	}
	if entry == nil || entry.Date != businessday.Today(s.clock) {
		return 0, nil
	}
	return entry.Counter, nil
}
