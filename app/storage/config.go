package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/umputun/antiflood/app/storage/engine"
)

// Config keeps a single json document per instance, T is the type of the document
type Config[T any] struct {
	*engine.SQL
	engine.RWLocker
}

// all config queries
const (
	CmdCreateConfigTable engine.DBCmd = iota + 200
	CmdCreateConfigIndexes
	CmdSetConfig
)

var configQueries = engine.NewQueryMap().
	Add(CmdCreateConfigTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS config (
			id INTEGER PRIMARY KEY,
			gid TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(gid)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS config (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(gid)
		)`,
	}).
	AddSame(CmdCreateConfigIndexes, `CREATE INDEX IF NOT EXISTS idx_config_gid ON config(gid)`).
	AddSame(CmdSetConfig, `INSERT INTO config (gid, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (gid) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)

// NewConfig makes config store and creates the table if needed
func NewConfig[T any](ctx context.Context, db *engine.SQL) (*Config[T], error) {
	if db == nil {
		return nil, fmt.Errorf("no db provided")
	}

	res := &Config[T]{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "config",
		CreateTable:   CmdCreateConfigTable,
		CreateIndexes: CmdCreateConfigIndexes,
		QueriesMap:    configQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init config table: %w", err)
	}
	return res, nil
}

// Get returns raw json of the document, ErrNotFound if nothing stored yet
func (c *Config[T]) Get(ctx context.Context) (string, error) {
	c.RLock()
	defer c.RUnlock()

	var data string
	err := c.GetContext(ctx, &data, c.Adopt("SELECT data FROM config WHERE gid = ?"), c.GID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get config: %w", err)
	}
	return data, nil
}

// GetObject reads the document and decodes it into obj
func (c *Config[T]) GetObject(ctx context.Context, obj *T) error {
	data, err := c.Get(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), obj); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// Set validates raw json against T and stores it, replacing the previous document
func (c *Config[T]) Set(ctx context.Context, data string) error {
	if data == "" || data == "null" {
		return fmt.Errorf("empty data not allowed")
	}

	var typeCheck T
	if err := json.Unmarshal([]byte(data), &typeCheck); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	query, err := configQueries.Pick(c.Type(), CmdSetConfig)
	if err != nil {
		return fmt.Errorf("failed to get set query: %w", err)
	}

	c.Lock()
	defer c.Unlock()
	if _, err = c.ExecContext(ctx, c.Adopt(query), c.GID(), data, time.Now()); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	return nil
}

// SetObject encodes obj to json and stores it
func (c *Config[T]) SetObject(ctx context.Context, obj *T) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return c.Set(ctx, string(data))
}

// Delete removes the document
func (c *Config[T]) Delete(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	if _, err := c.ExecContext(ctx, c.Adopt("DELETE FROM config WHERE gid = ?"), c.GID()); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	return nil
}

// LastUpdated returns the last update time of the document
func (c *Config[T]) LastUpdated(ctx context.Context) (time.Time, error) {
	c.RLock()
	defer c.RUnlock()

	var ts time.Time
	err := c.GetContext(ctx, &ts, c.Adopt("SELECT updated_at FROM config WHERE gid = ?"), c.GID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to get config update time: %w", err)
	}
	return ts, nil
}
