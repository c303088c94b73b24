package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentRegistry(t *testing.T) {
	t.Run("preserves priority order", func(t *testing.T) {
		r, err := NewAgentRegistry([]AgentDescriptor{
			{ID: "alpha"},
			{ID: "beta"},
			{ID: "gamma"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.IDs())
		assert.Equal(t, "alpha", r.First())
		assert.Equal(t, 3, r.Len())
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := NewAgentRegistry([]AgentDescriptor{{ID: ""}})
		require.Error(t, err)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		_, err := NewAgentRegistry([]AgentDescriptor{{ID: "a"}, {ID: "a"}})
		require.Error(t, err)
	})

	t.Run("rejects empty set", func(t *testing.T) {
		_, err := NewAgentRegistry(nil)
		require.Error(t, err)
	})
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	expected := []string{
		AgentClient, AgentContract, AgentEmployee, AgentDeliverable,
		AgentTime, AgentBilling, AgentUser,
	}
	assert.Equal(t, expected, r.IDs())
	assert.Equal(t, AgentClient, r.First())

	for _, id := range expected {
		d, ok := r.Get(id)
		require.True(t, ok, "missing descriptor for %s", id)
		assert.NotEmpty(t, d.Keywords, "agent %s has no keywords", id)
	}

	assert.False(t, r.Has("unknown_agent"))
}
