package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// eventRepo implements EventRepo over the answer_events and run_events
// tables.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	query, args, err := sq.Insert("answer_events").
		Columns("session_id", "module_id", "question_id", "answer_index", "correct", "advisory", "created_at").
		Values(data.SessionID, data.ModuleID, data.QuestionID, data.AnswerIndex, data.Correct, data.Advisory, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendRunEvent(ctx context.Context, data RunEventData) error {
	query, args, err := sq.Insert("run_events").
		Columns("run_id", "action", "module_count", "total_score", "total_max", "created_at").
		Values(data.RunID, data.Action, data.ModuleCount, data.TotalScore, data.TotalMax, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append run event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentAnswers(ctx context.Context, limit int) ([]AnswerEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	query, args, err := sq.Select("id", "session_id", "module_id", "question_id", "answer_index", "correct", "advisory", "created_at").
		From("answer_events").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var ev AnswerEvent
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.ModuleID, &ev.QuestionID,
			&ev.AnswerIndex, &ev.Correct, &ev.Advisory, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) ModuleAccuracy(ctx context.Context, moduleID string) (float64, error) {
	query, args, err := sq.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0)").
		From("answer_events").
		Where(sq.Eq{"module_id": moduleID, "advisory": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total, correct int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &correct); err != nil {
		return 0, fmt.Errorf("query accuracy for %s: %w", moduleID, err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}

var _ EventRepo = (*eventRepo)(nil)
