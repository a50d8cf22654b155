// Package storage provides SQLite-based persistence for saved runs and peak records.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store manages the SQLite database connection for saves and records.
type Store struct {
	db *sql.DB
}

// LocalOwner owns the saves of games played directly in a terminal.
const LocalOwner = "local"

// SaveSummary describes one saved run without its per-track detail.
type SaveSummary struct {
	Owner     string
	GameID    string
	Currency  bignum.Number
	Peak      bignum.Number
	Ticks     int64
	Levels    int64 // Sum of all track levels
	UpdatedAt time.Time
}

// Record is the best balance a session reached in one game.
type Record struct {
	ID        int64
	SessionID string
	GameID    string
	Peak      bignum.Number
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and applies pending migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	// SQLite allows a single writer; SSH sessions share this handle.
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// migrate applies the embedded goose migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveGame replaces owner's saved run for snap.GameID. A zero UpdatedAt is
// stamped with the current time.
func (s *Store) SaveGame(owner string, snap core.Snapshot) error {
	if owner == "" || snap.GameID == "" {
		return errors.New("storage: a save needs an owner and a game ID")
	}
	updated := snap.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO saves (owner, game_id, currency, peak, ticks, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner, game_id) DO UPDATE SET
		   currency = excluded.currency,
		   peak = excluded.peak,
		   ticks = excluded.ticks,
		   updated_at = excluded.updated_at`,
		owner, snap.GameID, snap.Currency, snap.Peak, snap.Ticks, updated.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM save_tracks WHERE owner = ? AND game_id = ?", owner, snap.GameID); err != nil {
		return fmt.Errorf("storage: cannot clear tracks: %w", err)
	}
	for _, t := range snap.Tracks {
		_, err := tx.Exec(
			"INSERT INTO save_tracks (owner, game_id, track_id, level, total_spent) VALUES (?, ?, ?, ?, ?)",
			owner, snap.GameID, t.ID, t.Level, t.TotalSpent,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit save: %w", err)
	}
	return nil
}

// LoadGame returns owner's saved run for gameID, or nil if there is none.
func (s *Store) LoadGame(owner, gameID string) (*core.Snapshot, error) {
	snap := core.Snapshot{GameID: gameID}
	var updated int64

	err := s.db.QueryRow(
		"SELECT currency, peak, ticks, updated_at FROM saves WHERE owner = ? AND game_id = ?",
		owner, gameID,
	).Scan(&snap.Currency, &snap.Peak, &snap.Ticks, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load game: %w", err)
	}
	snap.UpdatedAt = time.UnixMilli(updated)

	rows, err := s.db.Query(
		"SELECT track_id, level, total_spent FROM save_tracks WHERE owner = ? AND game_id = ? ORDER BY rowid",
		owner, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t core.TrackSnapshot
		if err := rows.Scan(&t.ID, &t.Level, &t.TotalSpent); err != nil {
			return nil, fmt.Errorf("storage: cannot scan track: %w", err)
		}
		snap.Tracks = append(snap.Tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return &snap, nil
}

// DeleteSave removes owner's saved run for gameID and reports whether one existed.
func (s *Store) DeleteSave(owner, gameID string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM save_tracks WHERE owner = ? AND game_id = ?", owner, gameID); err != nil {
		return false, fmt.Errorf("storage: cannot delete tracks: %w", err)
	}
	res, err := tx.Exec("DELETE FROM saves WHERE owner = ? AND game_id = ?", owner, gameID)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return n > 0, nil
}

// ListSaves returns owner's saved runs, most recently updated first. An empty
// owner lists every owner's saves.
func (s *Store) ListSaves(owner string) ([]SaveSummary, error) {
	rows, err := s.db.Query(
		`SELECT s.owner, s.game_id, s.currency, s.peak, s.ticks, s.updated_at, COALESCE(SUM(t.level), 0)
		 FROM saves s
		 LEFT JOIN save_tracks t ON t.owner = s.owner AND t.game_id = s.game_id
		 WHERE ? = '' OR s.owner = ?
		 GROUP BY s.owner, s.game_id
		 ORDER BY s.updated_at DESC`,
		owner, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveSummary
	for rows.Next() {
		var e SaveSummary
		var updated int64
		if err := rows.Scan(&e.Owner, &e.GameID, &e.Currency, &e.Peak, &e.Ticks, &updated, &e.Levels); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = time.UnixMilli(updated)
		saves = append(saves, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return saves, nil
}

// NewSessionID returns a fresh identifier for RecordPeak.
func NewSessionID() string {
	return uuid.NewString()
}

// RecordPeak stores peak as the session's record for gameID, keeping whichever of
// the old and new values is larger. An empty sessionID gets a fresh one, which is
// returned.
func (s *Store) RecordPeak(sessionID, gameID string, peak bignum.Number) (string, error) {
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	if peak.Sign() <= 0 {
		return sessionID, nil
	}

	_, err := s.db.Exec(
		`INSERT INTO records (session_id, game_id, peak, magnitude)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, game_id) DO UPDATE SET
		   peak = excluded.peak,
		   magnitude = excluded.magnitude,
		   created_at = CURRENT_TIMESTAMP
		 WHERE excluded.magnitude > records.magnitude`,
		sessionID, gameID, peak, magnitude(peak),
	)
	if err != nil {
		return sessionID, fmt.Errorf("storage: cannot record peak: %w", err)
	}
	return sessionID, nil
}

// magnitude is the REAL sort key for a peak: its base-10 logarithm.
func magnitude(n bignum.Number) float64 {
	m := n.Log10()
	if math.IsInf(m, 1) {
		return math.MaxFloat64
	}
	return m
}

// TopRecords retrieves the top N records for the given game, largest first.
func (s *Store) TopRecords(gameID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, game_id, peak, created_at
		 FROM records
		 WHERE game_id = ?
		 ORDER BY magnitude DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// BestRecord returns the highest record for the given game, or nil if none exist.
func (s *Store) BestRecord(gameID string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, session_id, game_id, peak, created_at
		 FROM records
		 WHERE game_id = ?
		 ORDER BY magnitude DESC, id ASC
		 LIMIT 1`,
		gameID,
	)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ClearRecords deletes all records for the given game.
func (s *Store) ClearRecords(gameID string) error {
	_, err := s.db.Exec("DELETE FROM records WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear records: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var createdAt any
	err := sc.Scan(&r.ID, &r.SessionID, &r.GameID, &r.Peak, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot scan record: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and SQLite's text timestamps.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
