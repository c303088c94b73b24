package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackCollectorRecord(t *testing.T) {
	storage := NewInMemoryFeedbackStorage()
	collector := NewFeedbackCollector(storage, DefaultRegistry())
	ctx := context.Background()

	t.Run("valid positive feedback", func(t *testing.T) {
		fb := &RouterFeedback{
			DecisionID:    "d1",
			SelectedAgent: AgentContract,
			Type:          FeedbackPositive,
		}
		require.NoError(t, collector.Record(ctx, fb))
		assert.NotEmpty(t, fb.ID)
		assert.False(t, fb.CreatedAt.IsZero())
	})

	t.Run("switch requires correct agent", func(t *testing.T) {
		err := collector.Record(ctx, &RouterFeedback{
			DecisionID:    "d2",
			SelectedAgent: AgentContract,
			Type:          FeedbackSwitch,
		})
		require.Error(t, err)

		require.NoError(t, collector.Record(ctx, &RouterFeedback{
			DecisionID:    "d2",
			SelectedAgent: AgentContract,
			CorrectAgent:  AgentBilling,
			Type:          FeedbackSwitch,
		}))
	})

	t.Run("rejects missing decision id", func(t *testing.T) {
		err := collector.Record(ctx, &RouterFeedback{
			SelectedAgent: AgentClient,
			Type:          FeedbackPositive,
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown agents and types", func(t *testing.T) {
		assert.Error(t, collector.Record(ctx, &RouterFeedback{
			DecisionID: "d3", SelectedAgent: "nope_agent", Type: FeedbackPositive,
		}))
		assert.Error(t, collector.Record(ctx, &RouterFeedback{
			DecisionID: "d3", SelectedAgent: AgentClient, Type: "meh",
		}))
		assert.Error(t, collector.Record(ctx, &RouterFeedback{
			DecisionID: "d3", SelectedAgent: AgentClient,
			CorrectAgent: "nope_agent", Type: FeedbackPositive,
		}))
	})
}

func TestFeedbackStats(t *testing.T) {
	storage := NewInMemoryFeedbackStorage()
	collector := NewFeedbackCollector(storage, DefaultRegistry())
	ctx := context.Background()

	seed := []RouterFeedback{
		{DecisionID: "d1", SelectedAgent: AgentContract, Type: FeedbackPositive},
		{DecisionID: "d2", SelectedAgent: AgentContract, Type: FeedbackPositive},
		{DecisionID: "d3", SelectedAgent: AgentBilling, Type: FeedbackRephrase},
		{DecisionID: "d4", SelectedAgent: AgentBilling, CorrectAgent: AgentContract, Type: FeedbackSwitch},
	}
	for i := range seed {
		require.NoError(t, collector.Record(ctx, &seed[i]))
	}

	stats, err := collector.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalFeedback)
	assert.Equal(t, int64(2), stats.Positive)
	assert.Equal(t, int64(1), stats.Rephrase)
	assert.Equal(t, int64(1), stats.Switch)
	assert.Equal(t, int64(2), stats.ByAgent[AgentContract])
	assert.Equal(t, int64(2), stats.ByAgent[AgentBilling])
	assert.InDelta(t, 0.5, stats.Accuracy(), 1e-9)
}

func TestRouterStatsAccuracyEmpty(t *testing.T) {
	stats := &RouterStats{}
	assert.Zero(t, stats.Accuracy())
}
