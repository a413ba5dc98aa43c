// Package catalog keeps a SQLite index of save files: where each was
// written, at which tick, and the counts from its header. The save files
// stay the source of truth; the catalog only makes them easy to find.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/saveload"
)

// ErrNotFound reports an empty catalog or an unknown path.
var ErrNotFound = errors.New("save not in catalog")

// Entry is one catalogued save.
type Entry struct {
	Path       string
	Tick       uint64
	MapSeed    uint32
	RecordedAt time.Time
	saveload.Header
}

// Catalog is a handle on the index database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at path.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("empty catalog path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		path TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		map_seed INTEGER NOT NULL,
		version INTEGER NOT NULL,
		capacity_mode TEXT NOT NULL,
		houses INTEGER NOT NULL,
		structures INTEGER NOT NULL,
		units INTEGER NOT NULL,
		teams INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_saves_tick ON saves(tick);`)
	return err
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record adds e, replacing any entry with the same path. A zero
// RecordedAt is set to now.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO saves
		(path, tick, map_seed, version, capacity_mode, houses, structures, units, teams, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Path, int64(e.Tick), int64(e.MapSeed), e.Version, e.Mode,
		e.Houses, e.Structures, e.Units, e.Teams,
		e.RecordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record save %s: %w", e.Path, err)
	}
	return nil
}

// Save writes w to path with saveload.WriteFile and records it.
func (c *Catalog) Save(ctx context.Context, path string, w *pool.World, tick uint64, mapSeed uint32) (Entry, error) {
	if err := saveload.WriteFile(path, w); err != nil {
		return Entry{}, err
	}
	e := Entry{
		Path:    path,
		Tick:    tick,
		MapSeed: mapSeed,
		Header:  saveload.Describe(w),
	}
	if err := c.Record(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

const selectEntry = `SELECT path, tick, map_seed, version, capacity_mode,
	houses, structures, units, teams, recorded_at FROM saves`

// List returns every entry ordered by tick, then path.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, selectEntry+` ORDER BY tick, path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Latest returns the entry with the highest tick.
func (c *Catalog) Latest(ctx context.Context) (Entry, error) {
	row := c.db.QueryRowContext(ctx, selectEntry+` ORDER BY tick DESC, path DESC LIMIT 1`)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// Remove deletes the entry for path.
func (c *Catalog) Remove(ctx context.Context, path string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM saves WHERE path = ?`, path)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e          Entry
		tick, seed int64
		recorded   string
	)
	err := s.Scan(&e.Path, &tick, &seed, &e.Version, &e.Mode,
		&e.Houses, &e.Structures, &e.Units, &e.Teams, &recorded)
	if err != nil {
		return Entry{}, err
	}
	e.Tick = uint64(tick)
	e.MapSeed = uint32(seed)
	e.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded)
	if err != nil {
		return Entry{}, fmt.Errorf("save %s: recorded_at: %w", e.Path, err)
	}
	return e, nil
}
