package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionCache(t *testing.T) {
	c := NewDecisionCache(10, time.Minute)

	decision := &RoutingDecision{
		ID:            "d1",
		SelectedAgent: AgentContract,
		Confidence:    ConfidenceHigh,
		Stage:         StageHeuristic,
		SignalsConsidered: []ClassificationSignal{{
			Source:         SourceKeyword,
			CandidateAgent: AgentContract,
			Weight:         2.5,
			MatchedTerms:   []string{"new contract"},
		}},
	}
	c.Set("Create new contract for TechCorp", decision)

	got, ok := c.Get("Create new contract for TechCorp")
	require.True(t, ok)
	assert.Equal(t, AgentContract, got.SelectedAgent)

	// Normalization makes punctuation and case variants share an entry.
	same, ok := c.Get("create NEW contract for techcorp!")
	require.True(t, ok)
	assert.Equal(t, got.SelectedAgent, same.SelectedAgent)

	_, ok = c.Get("something else entirely")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestDecisionCacheCopies(t *testing.T) {
	c := NewDecisionCache(10, time.Minute)

	original := &RoutingDecision{
		ID:            "d1",
		SelectedAgent: AgentEmployee,
		SignalsConsidered: []ClassificationSignal{{
			Source:       SourceKeyword,
			MatchedTerms: []string{"employee"},
		}},
	}
	c.Set("msg", original)

	// Mutating what the caller holds must not leak into the cache.
	original.SelectedAgent = "mutated"
	original.SignalsConsidered[0].MatchedTerms[0] = "mutated"

	first, ok := c.Get("msg")
	require.True(t, ok)
	assert.Equal(t, AgentEmployee, first.SelectedAgent)
	assert.Equal(t, "employee", first.SignalsConsidered[0].MatchedTerms[0])

	// And mutating a returned copy must not affect later reads.
	first.ID = "other"
	first.SignalsConsidered[0].MatchedTerms[0] = "changed"

	second, ok := c.Get("msg")
	require.True(t, ok)
	assert.Equal(t, "d1", second.ID)
	assert.Equal(t, "employee", second.SignalsConsidered[0].MatchedTerms[0])
}

func TestDecisionCacheExpiry(t *testing.T) {
	c := NewDecisionCache(10, 10*time.Millisecond)
	c.Set("msg", &RoutingDecision{SelectedAgent: AgentTime})

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("msg")
	assert.False(t, ok)
	assert.Equal(t, 0, c.CleanupExpired())
}
