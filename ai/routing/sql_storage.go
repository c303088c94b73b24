package routing

import (
	"context"

	"github.com/pkg/errors"

	"github.com/attache-ai/attache/store"
)

// SQLFeedbackStorage persists routing feedback through the store layer.
type SQLFeedbackStorage struct {
	store *store.Store
}

func NewSQLFeedbackStorage(s *store.Store) *SQLFeedbackStorage {
	return &SQLFeedbackStorage{store: s}
}

func (s *SQLFeedbackStorage) CreateFeedback(ctx context.Context, feedback *RouterFeedback) error {
	_, err := s.store.CreateRouterFeedback(ctx, &store.RouterFeedback{
		UID:           feedback.ID,
		DecisionID:    feedback.DecisionID,
		SelectedAgent: feedback.SelectedAgent,
		CorrectAgent:  feedback.CorrectAgent,
		FeedbackType:  string(feedback.Type),
		CreatedTs:     feedback.CreatedAt.Unix(),
	})
	return errors.Wrap(err, "failed to persist router feedback")
}

func (s *SQLFeedbackStorage) GetStats(ctx context.Context) (*RouterStats, error) {
	row, err := s.store.GetRouterStats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load router stats")
	}
	stats := &RouterStats{
		TotalFeedback: row.TotalFeedback,
		Positive:      row.Positive,
		Rephrase:      row.Rephrase,
		Switch:        row.Switch,
		ByAgent:       make(map[string]int64, len(row.ByAgent)),
	}
	for agent, count := range row.ByAgent {
		stats.ByAgent[agent] = count
	}
	return stats, nil
}
