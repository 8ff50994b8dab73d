package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cs-practicals/algosim/internal/games"
	"github.com/cs-practicals/algosim/internal/models"
)

// SQLiteStore implements ResultRepository on an embedded SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and runs migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the results table and its indexes
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			practical_id TEXT NOT NULL,
			round_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			level INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			completed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_practical ON results(practical_id, completed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_results_round ON results(round_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult inserts a result. Completion time is stored in Unix milliseconds.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *models.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, practical_id, round_id, kind, score, moves, level, elapsed_ms, seed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.PracticalID, result.RoundID, string(result.Kind),
		result.Score, result.Moves, result.Level, result.ElapsedMs, result.Seed,
		result.CompletedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrResultExists
		}
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResult retrieves a result by ID
func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*models.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, practical_id, round_id, kind, score, moves, level, elapsed_ms, seed, completed_at
		FROM results WHERE id = ?`, id)

	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

// ListResults retrieves a practical's results, newest first
func (s *SQLiteStore) ListResults(ctx context.Context, practicalID string, limit int) ([]*models.Result, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, practical_id, round_id, kind, score, moves, level, elapsed_ms, seed, completed_at
		FROM results WHERE practical_id = ?
		ORDER BY completed_at DESC, id ASC
		LIMIT ?`, practicalID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*models.Result, error) {
	var (
		r           models.Result
		kind        string
		completedAt int64
	)
	if err := row.Scan(&r.ID, &r.PracticalID, &r.RoundID, &kind, &r.Score, &r.Moves,
		&r.Level, &r.ElapsedMs, &r.Seed, &completedAt); err != nil {
		return nil, err
	}
	r.Kind = games.Kind(kind)
	r.CompletedAt = time.UnixMilli(completedAt).UTC()
	return &r, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
