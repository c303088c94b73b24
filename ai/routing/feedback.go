package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FeedbackType describes how a routed conversation went.
type FeedbackType string

const (
	// FeedbackPositive means the selected agent handled the request.
	FeedbackPositive FeedbackType = "positive"
	// FeedbackRephrase means the user had to reword the request.
	FeedbackRephrase FeedbackType = "rephrase"
	// FeedbackSwitch means the request was handed to a different agent.
	FeedbackSwitch FeedbackType = "switch"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackPositive, FeedbackRephrase, FeedbackSwitch:
		return true
	}
	return false
}

// RouterFeedback records the outcome of one routing decision. Feedback lives
// outside the decision itself; decisions are never mutated after the fact.
type RouterFeedback struct {
	ID            string       `json:"id"`
	DecisionID    string       `json:"decision_id"`
	SelectedAgent string       `json:"selected_agent"`
	CorrectAgent  string       `json:"correct_agent,omitempty"`
	Type          FeedbackType `json:"type"`
	CreatedAt     time.Time    `json:"created_at"`
}

// RouterStats aggregates feedback into per-agent accuracy counters.
type RouterStats struct {
	TotalFeedback int64            `json:"total_feedback"`
	Positive      int64            `json:"positive"`
	Rephrase      int64            `json:"rephrase"`
	Switch        int64            `json:"switch"`
	ByAgent       map[string]int64 `json:"by_agent"`
}

// Accuracy is the share of positive feedback, in [0, 1].
func (s *RouterStats) Accuracy() float64 {
	if s.TotalFeedback == 0 {
		return 0
	}
	return float64(s.Positive) / float64(s.TotalFeedback)
}

// FeedbackStorage persists routing feedback.
type FeedbackStorage interface {
	CreateFeedback(ctx context.Context, feedback *RouterFeedback) error
	GetStats(ctx context.Context) (*RouterStats, error)
}

// InMemoryFeedbackStorage keeps feedback in process memory, for demo mode and
// tests.
type InMemoryFeedbackStorage struct {
	mu      sync.RWMutex
	entries []RouterFeedback
}

func NewInMemoryFeedbackStorage() *InMemoryFeedbackStorage {
	return &InMemoryFeedbackStorage{}
}

func (s *InMemoryFeedbackStorage) CreateFeedback(ctx context.Context, feedback *RouterFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *feedback)
	return nil
}

func (s *InMemoryFeedbackStorage) GetStats(ctx context.Context) (*RouterStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &RouterStats{ByAgent: make(map[string]int64)}
	for _, f := range s.entries {
		stats.TotalFeedback++
		stats.ByAgent[f.SelectedAgent]++
		switch f.Type {
		case FeedbackPositive:
			stats.Positive++
		case FeedbackRephrase:
			stats.Rephrase++
		case FeedbackSwitch:
			stats.Switch++
		}
	}
	return stats, nil
}

// FeedbackCollector validates and persists routing feedback.
type FeedbackCollector struct {
	storage  FeedbackStorage
	registry *AgentRegistry
}

func NewFeedbackCollector(storage FeedbackStorage, registry *AgentRegistry) *FeedbackCollector {
	return &FeedbackCollector{storage: storage, registry: registry}
}

// Record validates the feedback, stamps id and timestamp, and persists it.
func (c *FeedbackCollector) Record(ctx context.Context, feedback *RouterFeedback) error {
	if feedback.DecisionID == "" {
		return fmt.Errorf("feedback requires a decision id")
	}
	if !feedback.Type.Valid() {
		return fmt.Errorf("unknown feedback type %q", feedback.Type)
	}
	if !c.registry.Has(feedback.SelectedAgent) {
		return fmt.Errorf("unknown selected agent %q", feedback.SelectedAgent)
	}
	if feedback.CorrectAgent != "" && !c.registry.Has(feedback.CorrectAgent) {
		return fmt.Errorf("unknown correct agent %q", feedback.CorrectAgent)
	}
	if feedback.Type == FeedbackSwitch && feedback.CorrectAgent == "" {
		return fmt.Errorf("switch feedback requires the correct agent")
	}

	feedback.ID = uuid.NewString()
	feedback.CreatedAt = time.Now().UTC()
	return c.storage.CreateFeedback(ctx, feedback)
}

// Stats returns aggregated feedback counters.
func (c *FeedbackCollector) Stats(ctx context.Context) (*RouterStats, error) {
	return c.storage.GetStats(ctx)
}
