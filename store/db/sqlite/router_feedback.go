package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/attache-ai/attache/store"
)

// CreateRouterFeedback creates a new router feedback entry.
func (d *DB) CreateRouterFeedback(ctx context.Context, create *store.RouterFeedback) (*store.RouterFeedback, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `INSERT INTO router_feedback (uid, decision_id, selected_agent, correct_agent, feedback_type, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := d.db.ExecContext(ctx, stmt,
		create.UID, create.DecisionID, create.SelectedAgent, create.CorrectAgent,
		create.FeedbackType, create.CreatedTs)
	if err != nil {
		return nil, fmt.Errorf("failed to create router feedback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get router feedback id: %w", err)
	}
	create.ID = id
	return create, nil
}

// ListRouterFeedback retrieves router feedback entries, newest first.
func (d *DB) ListRouterFeedback(ctx context.Context, find *store.FindRouterFeedback) ([]*store.RouterFeedback, error) {
	query := `SELECT id, uid, decision_id, selected_agent, correct_agent, feedback_type, created_ts
		FROM router_feedback WHERE 1=1`
	args := []any{}

	if find.DecisionID != nil {
		query += " AND decision_id = ?"
		args = append(args, *find.DecisionID)
	}
	if find.FeedbackType != nil {
		query += " AND feedback_type = ?"
		args = append(args, *find.FeedbackType)
	}
	if find.Agent != nil {
		query += " AND selected_agent = ?"
		args = append(args, *find.Agent)
	}
	if find.StartTs != nil {
		query += " AND created_ts >= ?"
		args = append(args, *find.StartTs)
	}
	if find.EndTs != nil {
		query += " AND created_ts <= ?"
		args = append(args, *find.EndTs)
	}

	query += " ORDER BY created_ts DESC"
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list router feedback: %w", err)
	}
	defer rows.Close()

	var feedbacks []*store.RouterFeedback
	for rows.Next() {
		var fb store.RouterFeedback
		if err := rows.Scan(&fb.ID, &fb.UID, &fb.DecisionID, &fb.SelectedAgent,
			&fb.CorrectAgent, &fb.FeedbackType, &fb.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan router feedback: %w", err)
		}
		feedbacks = append(feedbacks, &fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating router feedback rows: %w", err)
	}
	return feedbacks, nil
}

// GetRouterStats aggregates feedback counts by type and by selected agent.
func (d *DB) GetRouterStats(ctx context.Context) (*store.RouterStats, error) {
	stats := &store.RouterStats{ByAgent: make(map[string]int64)}

	statsQuery := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN feedback_type = 'positive' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN feedback_type = 'rephrase' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN feedback_type = 'switch' THEN 1 ELSE 0 END), 0)
		FROM router_feedback`
	err := d.db.QueryRowContext(ctx, statsQuery).
		Scan(&stats.TotalFeedback, &stats.Positive, &stats.Rephrase, &stats.Switch)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get router stats: %w", err)
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT selected_agent, COUNT(*) FROM router_feedback GROUP BY selected_agent`)
	if err != nil {
		return nil, fmt.Errorf("failed to get router stats by agent: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var agent string
		var count int64
		if err := rows.Scan(&agent, &count); err != nil {
			return nil, fmt.Errorf("failed to scan router stats row: %w", err)
		}
		stats.ByAgent[agent] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating router stats rows: %w", err)
	}
	return stats, nil
}
