package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PutGetRemove(t *testing.T) {
	r := NewRegistry()

	r.Put("c1", "alice", 1)
	id, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", id.Name)
	assert.Equal(t, 1, id.MemberID)

	r.Remove("c1")
	id, ok = r.Get("c1")
	assert.False(t, ok)
	assert.Equal(t, Identity{}, id)
}

func TestRegistry_AbsentKeyNoOps(t *testing.T) {
	r := NewRegistry()

	id, ok := r.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, id.Name)
	assert.Zero(t, id.MemberID)

	// removing an absent key is a no-op
	r.Remove("missing")
}

func TestRegistry_Overwrite(t *testing.T) {
	r := NewRegistry()

	r.Put("c1", "alice", 1)
	r.Put("c1", "alice2", 7)

	id, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "alice2", id.Name)
	assert.Equal(t, 7, id.MemberID)
}

func TestMemberCounter_StartsAtOneAndIncreases(t *testing.T) {
	c := NewMemberCounter()

	for want := 1; want <= 5; want++ {
		assert.Equal(t, want, c.Next("room1"))
	}
}

func TestMemberCounter_PerRoomSequences(t *testing.T) {
	c := NewMemberCounter()

	assert.Equal(t, 1, c.Next("r1"))
	assert.Equal(t, 1, c.Next("r2"))
	assert.Equal(t, 2, c.Next("r1"))
	assert.Equal(t, 2, c.Next("r2"))
}

func TestMemberCounter_NoReuseAfterRoomEmpties(t *testing.T) {
	c := NewMemberCounter()

	seen := make(map[int]bool)
	// first generation of members joins and leaves
	for i := 0; i < 3; i++ {
		id := c.Next("room1")
		require.False(t, seen[id], "member id %d reused", id)
		seen[id] = true
	}

	// the room refills: ids must keep increasing
	next := c.Next("room1")
	assert.Equal(t, 4, next)
	assert.False(t, seen[next])
}
