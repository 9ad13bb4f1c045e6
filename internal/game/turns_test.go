package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOrder(n int) (*TurnOrder, []uuid.UUID) {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	to := &TurnOrder{}
	to.Build(ids)
	return to, ids
}

// TestTurnOrderRotation checks that repeated Advance calls visit the
// participants round-robin in join order.
func TestTurnOrderRotation(t *testing.T) {
	to, ids := buildOrder(3)

	for i := 0; i < 10; i++ {
		cur, ok := to.Current()
		require.True(t, ok)
		assert.Equal(t, ids[i%3], cur, "step %d", i)
		to.Advance()
	}
}

func TestTurnOrderEmpty(t *testing.T) {
	to := &TurnOrder{}
	_, ok := to.Current()
	assert.False(t, ok)
	assert.False(t, to.IsTurnOf(uuid.New()))
	to.Advance() // must not panic
	removed, empty := to.Remove(uuid.New())
	assert.False(t, removed)
	assert.True(t, empty)
}

// TestRemoveBeforeCursorKeepsHolder removes a participant who already had
// their turn this round; the current holder must not change and the next
// Advance must not skip anyone.
func TestRemoveBeforeCursorKeepsHolder(t *testing.T) {
	to, ids := buildOrder(3) // A, B, C
	to.Advance()             // holder is now B

	removed, empty := to.Remove(ids[0]) // drop A
	require.True(t, removed)
	require.False(t, empty)

	cur, ok := to.Current()
	require.True(t, ok)
	assert.Equal(t, ids[1], cur, "B keeps the turn after A leaves")

	to.Advance()
	cur, _ = to.Current()
	assert.Equal(t, ids[2], cur, "C is next, not skipped")
}

// TestRemoveCurrentHolderPassesToNext removes the participant who holds
// the turn; the turn passes to whoever was next in line.
func TestRemoveCurrentHolderPassesToNext(t *testing.T) {
	to, ids := buildOrder(3) // holder A

	removed, empty := to.Remove(ids[0])
	require.True(t, removed)
	require.False(t, empty)

	cur, ok := to.Current()
	require.True(t, ok)
	assert.Equal(t, ids[1], cur, "turn passes to B")

	// Removing the holder at the end of the order wraps around.
	to.Advance() // holder C
	removed, empty = to.Remove(ids[2])
	require.True(t, removed)
	require.False(t, empty)
	cur, _ = to.Current()
	assert.Equal(t, ids[1], cur, "wraps back to B")
}

func TestRemoveAfterCursor(t *testing.T) {
	to, ids := buildOrder(3) // holder A

	removed, empty := to.Remove(ids[2]) // drop C, who has not played yet
	require.True(t, removed)
	require.False(t, empty)

	cur, _ := to.Current()
	assert.Equal(t, ids[0], cur)
	to.Advance()
	cur, _ = to.Current()
	assert.Equal(t, ids[1], cur)
	to.Advance()
	cur, _ = to.Current()
	assert.Equal(t, ids[0], cur, "two-player rotation after removal")
}

func TestRemoveToEmpty(t *testing.T) {
	to, ids := buildOrder(2)

	_, empty := to.Remove(ids[0])
	require.False(t, empty)
	removed, empty := to.Remove(ids[1])
	assert.True(t, removed)
	assert.True(t, empty)
	_, ok := to.Current()
	assert.False(t, ok)
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	to, ids := buildOrder(2)
	removed, empty := to.Remove(uuid.New())
	assert.False(t, removed)
	assert.False(t, empty)
	assert.Equal(t, ids, to.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	to, ids := buildOrder(2)
	snap := to.Snapshot()
	snap[0] = uuid.New()
	cur, _ := to.Current()
	assert.Equal(t, ids[0], cur)
}
