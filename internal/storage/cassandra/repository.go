package cassandra

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gocql/gocql"

	"github.com/cs-practicals/algosim/internal/games"
	"github.com/cs-practicals/algosim/internal/models"
	"github.com/cs-practicals/algosim/internal/storage"
	"github.com/cs-practicals/algosim/pkg/logger"
)

// Repository implements storage.ResultRepository using Cassandra
type Repository struct {
	client  *Client
	logger  *logger.Logger
	timeout time.Duration
}

// NewRepository creates a new Cassandra-based result repository
func NewRepository(client *Client, log *logger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		client:  client,
		logger:  log,
		timeout: timeout,
	}
}

// queryContext applies the configured timeout unless ctx already has a
// deadline. The returned cancel must always be called.
func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	queryCtx, cancel := ctx, context.CancelFunc(func() {})
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		queryCtx, cancel = context.WithTimeout(ctx, r.timeout)
	}

	select {
	case <-queryCtx.Done():
		cancel()
		return nil, func() {}, fmt.Errorf("context cancelled: %w", queryCtx.Err())
	default:
	}
	return queryCtx, cancel, nil
}

// SaveResult writes the result row with a lightweight transaction, then
// indexes it under its practical.
func (r *Repository) SaveResult(ctx context.Context, result *models.Result) error {
	queryCtx, cancel, err := r.queryContext(ctx)
	defer cancel()
	if err != nil {
		return err
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s.results (id, practical_id, round_id, kind, score, moves, level, elapsed_ms, seed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		IF NOT EXISTS`, r.client.Keyspace())

	applied, err := r.client.Session().Query(insert,
		result.ID,
		result.PracticalID,
		result.RoundID,
		string(result.Kind),
		result.Score,
		result.Moves,
		result.Level,
		result.ElapsedMs,
		result.Seed,
		result.CompletedAt,
	).WithContext(queryCtx).ScanCAS(nil)
	if err != nil {
		r.logger.Error("Failed to save result in Cassandra",
			logger.F("result_id", result.ID),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to save result: %w", err)
	}
	if !applied {
		return storage.ErrResultExists
	}

	index := fmt.Sprintf(`
		INSERT INTO %s.results_by_practical (practical_id, completed_at, id, round_id, kind, score, moves, level, elapsed_ms, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.client.Keyspace())

	err = r.client.Session().Query(index,
		result.PracticalID,
		result.CompletedAt,
		result.ID,
		result.RoundID,
		string(result.Kind),
		result.Score,
		result.Moves,
		result.Level,
		result.ElapsedMs,
		result.Seed,
	).WithContext(queryCtx).Exec()
	if err != nil {
		r.logger.Error("Failed to index result in Cassandra",
			logger.F("result_id", result.ID),
			logger.F("practical_id", result.PracticalID),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to index result: %w", err)
	}

	r.logger.Debug("Result saved", logger.F("result_id", result.ID), logger.F("score", strconv.Itoa(result.Score)))
	return nil
}

// GetResult retrieves a result by ID
func (r *Repository) GetResult(ctx context.Context, id string) (*models.Result, error) {
	queryCtx, cancel, err := r.queryContext(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, practical_id, round_id, kind, score, moves, level, elapsed_ms, seed, completed_at
		FROM %s.results
		WHERE id = ?`, r.client.Keyspace())

	var (
		result models.Result
		kind   string
	)
	err = r.client.Session().Query(query, id).WithContext(queryCtx).Scan(
		&result.ID,
		&result.PracticalID,
		&result.RoundID,
		&kind,
		&result.Score,
		&result.Moves,
		&result.Level,
		&result.ElapsedMs,
		&result.Seed,
		&result.CompletedAt,
	)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, storage.ErrResultNotFound
		}
		r.logger.Error("Failed to get result from Cassandra",
			logger.F("result_id", id),
			logger.F("error", err.Error()))
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	result.Kind = games.Kind(kind)
	result.CompletedAt = result.CompletedAt.UTC()
	return &result, nil
}

// ListResults reads a practical's partition, which is clustered newest first
func (r *Repository) ListResults(ctx context.Context, practicalID string, limit int) ([]*models.Result, error) {
	queryCtx, cancel, err := r.queryContext(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, practical_id, round_id, kind, score, moves, level, elapsed_ms, seed, completed_at
		FROM %s.results_by_practical
		WHERE practical_id = ?`, r.client.Keyspace())
	args := []interface{}{practicalID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	iter := r.client.Session().Query(query, args...).WithContext(queryCtx).Iter()

	var (
		results []*models.Result
		result  models.Result
		kind    string
	)
	for iter.Scan(
		&result.ID,
		&result.PracticalID,
		&result.RoundID,
		&kind,
		&result.Score,
		&result.Moves,
		&result.Level,
		&result.ElapsedMs,
		&result.Seed,
		&result.CompletedAt,
	) {
		res := result
		res.Kind = games.Kind(kind)
		res.CompletedAt = res.CompletedAt.UTC()
		results = append(results, &res)
	}

	if err := iter.Close(); err != nil {
		r.logger.Error("Failed to list results from Cassandra",
			logger.F("practical_id", practicalID),
			logger.F("error", err.Error()))
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return results, nil
}
