// Package settings provides the keyed JSON settings store: app-level
// preferences plus small persistent records like the order counter.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"tavolo/internal/core/apperror"
)

// AppSettingsKey is the settings key of the terminal preferences record.
const AppSettingsKey = "appSettings"

// AppSettings are the terminal preferences edited on the settings page.
type AppSettings struct {
	RestaurantName string  `json:"restaurantName"`
	CurrencySymbol string  `json:"currencySymbol"`
	TaxRate        float64 `json:"taxRate"`
	PrinterIP      *string `json:"printerIp,omitempty"`
}

// DefaultAppSettings returns the values used before the first save.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		RestaurantName: "Restaurant",
		CurrencySymbol: "$",
	}
}

// Repository is a raw keyed JSON store. Get reports found=false when the
// key is absent.
type Repository interface {
	Get(ctx context.Context, key string) (value json.RawMessage, found bool, err error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

// Service provides validated access to the settings store.
type Service struct {
	repo Repository
}

// NewService creates a settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the raw JSON value stored under key.
func (s *Service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, apperror.NewValidation("settings key is required")
	}
	value, found, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load setting %q: %w", key, err)
	}
	if !found {
		return nil, apperror.NewNotFound("setting", key)
	}
	return value, nil
}

// Put stores a JSON value under key.
func (s *Service) Put(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return apperror.NewValidation("settings key is required")
	}
	if !json.Valid(value) {
		return apperror.NewValidation("settings value must be valid JSON").WithDetail("key", key)
	}
	if err := s.repo.Put(ctx, key, value); err != nil {
		return fmt.Errorf("store setting %q: %w", key, err)
	}
	return nil
}

// Delete removes a key; deleting an absent key is not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return apperror.NewValidation("settings key is required")
	}
	return s.repo.Delete(ctx, key)
}

// AppSettings loads the terminal preferences, falling back to defaults
// when none were saved yet.
func (s *Service) AppSettings(ctx context.Context) (AppSettings, error) {
	value, found, err := s.repo.Get(ctx, AppSettingsKey)
	if err != nil {
		return AppSettings{}, fmt.Errorf("load app settings: %w", err)
	}
	if !found {
		return DefaultAppSettings(), nil
	}
	var out AppSettings
	if err := json.Unmarshal(value, &out); err != nil {
		return AppSettings{}, fmt.Errorf("decode app settings: %w", err)
	}
	return out, nil
}

// SaveAppSettings persists the terminal preferences.
func (s *Service) SaveAppSettings(ctx context.Context, in AppSettings) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode app settings: %w", err)
	}
	return s.Put(ctx, AppSettingsKey, data)
}
