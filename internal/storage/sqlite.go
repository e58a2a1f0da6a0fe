// Package storage provides SQLite-based persistence for episode history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gridplay/internal/episode"
)

// Store manages the SQLite database connection for episode persistence.
type Store struct {
	db *sql.DB
}

// EpisodeEntry is one stored episode. Boards are not persisted.
type EpisodeEntry struct {
	ID         string
	GameID     string
	Seed       int64
	Frames     int
	Return     float64
	Terminated bool
	Discount   float64
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
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

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL,
			total_return REAL NOT NULL,
			terminated INTEGER NOT NULL DEFAULT 0,
			discount REAL NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_game_id ON episodes(game_id);
		CREATE INDEX IF NOT EXISTS idx_episodes_top ON episodes(game_id, total_return DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode. Saving the same ID twice is an
// error.
func (s *Store) SaveEpisode(sum episode.Summary) error {
	created := sum.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO episodes (id, game_id, seed, frames, total_return, terminated, discount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.GameID, sum.Seed, sum.Frames, sum.Return, sum.Terminated, sum.FinalDiscount,
		created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save episode: %w", err)
	}
	return nil
}

// TopEpisodes retrieves the N best episodes for the given game.
// Results are ordered by return descending, ties broken by recency.
func (s *Store) TopEpisodes(gameID string, limit int) ([]EpisodeEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryEpisodes(
		`SELECT id, game_id, seed, frames, total_return, terminated, discount, created_at
		 FROM episodes
		 WHERE game_id = ?
		 ORDER BY total_return DESC, created_at DESC
		 LIMIT ?`,
		gameID, limit,
	)
}

// AllEpisodes retrieves every episode for the given game, newest first.
func (s *Store) AllEpisodes(gameID string) ([]EpisodeEntry, error) {
	return s.queryEpisodes(
		`SELECT id, game_id, seed, frames, total_return, terminated, discount, created_at
		 FROM episodes
		 WHERE game_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		gameID,
	)
}

// Episode retrieves a single episode by ID. It returns nil and no error
// when there is none.
func (s *Store) Episode(id string) (*EpisodeEntry, error) {
	if id == "" {
		return nil, nil
	}
	entries, err := s.queryEpisodes(
		`SELECT id, game_id, seed, frames, total_return, terminated, discount, created_at
		 FROM episodes WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, id+"%", id,
	)
	switch {
	case err != nil || len(entries) == 0:
		return nil, err
	case len(entries) > 1 && entries[0].ID != id:
		return nil, fmt.Errorf("storage: episode id %q is ambiguous", id)
	}
	return &entries[0], nil
}

func (s *Store) queryEpisodes(query string, args ...any) ([]EpisodeEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var entries []EpisodeEntry
	for rows.Next() {
		var e EpisodeEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Seed, &e.Frames, &e.Return, &e.Terminated, &e.Discount, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestReturn returns the highest return recorded for the given game, and
// false if no episode has been stored yet.
func (s *Store) BestReturn(gameID string) (float64, bool, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MAX(total_return) FROM episodes WHERE game_id = ?",
		gameID,
	).Scan(&best)

	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best return: %w", err)
	}

	if !best.Valid {
		return 0, false, nil
	}

	return best.Float64, true, nil
}

// ClearEpisodes deletes all episodes for the given game.
func (s *Store) ClearEpisodes(gameID string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID      string
	Episodes    int
	Terminated  int
	BestReturn  float64
	AvgReturn   float64
	TotalFrames int64
	LastPlayed  time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(terminated), 0), COALESCE(MAX(total_return), 0),
		        COALESCE(AVG(total_return), 0), COALESCE(SUM(frames), 0), MAX(created_at)
		 FROM episodes WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Episodes, &stats.Terminated, &stats.BestReturn, &stats.AvgReturn, &stats.TotalFrames, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

const timeLayout = "2006-01-02 15:04:05"

// parseTime handles both driver-decoded times and raw strings.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
