package config

import (
	"context"
	"fmt"

	"github.com/umputun/antiflood/app/storage"
	"github.com/umputun/antiflood/app/storage/engine"
)

// Store provides access to settings stored in database, one document per instance id
type Store struct {
	cfg *storage.Config[Settings]
}

// NewStore creates a new settings store
func NewStore(ctx context.Context, db *engine.SQL) (*Store, error) {
	cfg, err := storage.NewConfig[Settings](ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to make settings store: %w", err)
	}
	return &Store{cfg: cfg}, nil
}

// Load retrieves the settings from the database, storage.ErrNotFound if nothing saved yet.
// Missing fields of the stored document are filled with defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	data, err := s.cfg.Get(ctx)
	if err != nil {
		return New(), err
	}
	res, err := Parse([]byte(data))
	if err != nil {
		return New(), fmt.Errorf("failed to load settings: %w", err)
	}
	return res, nil
}

// Save stores the settings to the database
func (s *Store) Save(ctx context.Context, settings Settings) error {
	if err := s.cfg.SetObject(ctx, &settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Delete removes the stored settings
func (s *Store) Delete(ctx context.Context) error {
	return s.cfg.Delete(ctx)
}
