package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// progressRepo implements ProgressRepo over the progress table.
type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Best(ctx context.Context, moduleID string) (int, error) {
	query, args, err := sq.Select("best").
		From("progress").
		Where(sq.Eq{"module_id": moduleID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var best int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query best for %s: %w", moduleID, err)
	}
	return best, nil
}

func (r *progressRepo) All(ctx context.Context) (map[string]int, error) {
	query, args, err := sq.Select("module_id", "best").From("progress").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var best int
		if err := rows.Scan(&id, &best); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		out[id] = best
	}
	return out, rows.Err()
}

// RecordScore merges in a single upsert so the stored value can never
// decrease, even if callers race.
func (r *progressRepo) RecordScore(ctx context.Context, moduleID string, score int) (int, error) {
	if score < 0 {
		score = 0
	}

	query, args, err := sq.Insert("progress").
		Columns("module_id", "best", "updated_at").
		Values(moduleID, score, time.Now()).
		Suffix(`ON CONFLICT (module_id) DO UPDATE SET
			best = MAX(progress.best, excluded.best),
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("record score for %s: %w", moduleID, err)
	}
	return r.Best(ctx, moduleID)
}

func (r *progressRepo) Reset(ctx context.Context) error {
	query, args, err := sq.Delete("progress").ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
