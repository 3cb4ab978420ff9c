package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/umputun/antiflood/app/storage/engine"
	"github.com/umputun/antiflood/lib/floodcheck"
)

// Detections is a journal of detected flood messages
type Detections struct {
	*engine.SQL
	engine.RWLocker
}

// DetectionInfo is a single journal row
type DetectionInfo struct {
	ID        int64           `db:"id" json:"id"`
	GID       string          `db:"gid" json:"-"`
	GroupID   string          `db:"group_id" json:"group_id"`
	UserID    string          `db:"user_id" json:"user_id"`
	Text      string          `db:"text" json:"text"`
	Kind      floodcheck.Kind `db:"kind" json:"kind"`
	Details   string          `db:"details" json:"details"`
	Timestamp time.Time       `db:"ts" json:"ts"`
}

// all detections queries
const (
	CmdCreateDetectionsTable engine.DBCmd = iota + 100
	CmdCreateDetectionsIndexes
)

var detectionsQueries = engine.NewQueryMap().
	Add(CmdCreateDetectionsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gid TEXT NOT NULL DEFAULT '',
			group_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			text TEXT,
			kind TEXT NOT NULL,
			details TEXT,
			ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS detections (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			group_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			text TEXT,
			kind TEXT NOT NULL,
			details TEXT,
			ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}).
	AddSame(CmdCreateDetectionsIndexes, `
		CREATE INDEX IF NOT EXISTS idx_detections_gid_ts ON detections(gid, ts DESC);
		CREATE INDEX IF NOT EXISTS idx_detections_group_user ON detections(gid, group_id, user_id)
	`)

// NewDetections makes detections journal and creates the table if needed
func NewDetections(ctx context.Context, db *engine.SQL) (*Detections, error) {
	if db == nil {
		return nil, fmt.Errorf("no db provided")
	}
	res := &Detections{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "detections",
		CreateTable:   CmdCreateDetectionsTable,
		CreateIndexes: CmdCreateDetectionsIndexes,
		QueriesMap:    detectionsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init detections table: %w", err)
	}
	return res, nil
}

// Write adds a detection to the journal
func (d *Detections) Write(ctx context.Context, det floodcheck.Detection) error {
	d.Lock()
	defer d.Unlock()

	ts := det.Record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	query := d.Adopt(`INSERT INTO detections (gid, group_id, user_id, text, kind, details, ts) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := d.ExecContext(ctx, query, d.GID(), det.Record.GroupID, det.Record.UserID, det.Record.Text,
		det.Response.Kind, det.Response.Details, ts.UTC()); err != nil {
		return fmt.Errorf("failed to insert detection: %w", err)
	}
	log.Printf("[DEBUG] detection journaled for user:%s, group:%s, %s", det.Record.UserID, det.Record.GroupID, det.Response)
	return nil
}

// Read returns up to limit most recent detections, newest first. limit <= 0 means all.
func (d *Detections) Read(ctx context.Context, limit int) ([]DetectionInfo, error) {
	d.RLock()
	defer d.RUnlock()

	query := "SELECT id, gid, group_id, user_id, text, kind, details, ts FROM detections WHERE gid = ? ORDER BY ts DESC, id DESC"
	args := []any{d.GID()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	res := []DetectionInfo{}
	if err := d.SelectContext(ctx, &res, d.Adopt(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get detections: %w", err)
	}
	for i := range res {
		res[i].Timestamp = res[i].Timestamp.Local()
	}
	return res, nil
}

// Count returns the number of journal rows
func (d *Detections) Count(ctx context.Context) (int, error) {
	d.RLock()
	defer d.RUnlock()

	var count int
	if err := d.GetContext(ctx, &count, d.Adopt("SELECT COUNT(*) FROM detections WHERE gid = ?"), d.GID()); err != nil {
		return 0, fmt.Errorf("failed to count detections: %w", err)
	}
	return count, nil
}

// Cleanup removes detections older than the given age, returns the number of removed rows
func (d *Detections) Cleanup(ctx context.Context, age time.Duration) (int64, error) {
	d.Lock()
	defer d.Unlock()

	res, err := d.ExecContext(ctx, d.Adopt("DELETE FROM detections WHERE gid = ? AND ts < ?"), d.GID(), time.Now().Add(-age).UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup detections: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}
