package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/engine"
	"github.com/rerolab/9-life/room"
)

// PostgresRepo archives finished games. It implements room.ResultRecorder.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return &PostgresRepo{pool: pool}, nil
}

func (repo *PostgresRepo) Close() {
	repo.pool.Close()
}

func (repo *PostgresRepo) RecordResult(ctx context.Context, result room.GameResult) error {
	rankings, err := json.Marshal(result.Rankings)
	if err != nil {
		return err
	}

	_, err = repo.pool.Exec(ctx,
		"INSERT INTO game_results(room_id, map_id, finished_at, rankings) VALUES($1, $2, $3, $4)",
		result.RoomID, result.MapID, result.FinishedAt, rankings,
	)
	return wrap(err)
}

// RecentResults returns up to limit archived games, newest first.
func (repo *PostgresRepo) RecentResults(ctx context.Context, limit int) ([]room.GameResult, error) {
	rows, err := repo.pool.Query(ctx,
		"SELECT room_id, map_id, finished_at, rankings FROM game_results ORDER BY finished_at DESC, id DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	results := []room.GameResult{}
	for rows.Next() {
		var (
			r        room.GameResult
			rankings []byte
		)
		if err := rows.Scan(&r.RoomID, &r.MapID, &r.FinishedAt, &rankings); err != nil {
			return nil, wrap(err)
		}
		if err := json.Unmarshal(rankings, &r.Rankings); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
		if r.Rankings == nil {
			r.Rankings = []engine.Ranking{}
		}
		r.FinishedAt = r.FinishedAt.UTC()
		results = append(results, r)
	}
	return results, wrap(rows.Err())
}

func wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
}
