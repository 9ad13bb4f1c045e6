package game

import "github.com/google/uuid"

// TurnOrder is the authority-owned rotation over match participants: the
// roster snapshot taken at match start plus a cursor. It is pure state;
// the Match guards every mutation behind its authority token and mutex.
type TurnOrder struct {
	order  []uuid.UUID
	cursor int
}

// Build replaces the order with a copy of ids and resets the cursor to the
// first entry.
func (t *TurnOrder) Build(ids []uuid.UUID) {
	t.order = make([]uuid.UUID, len(ids))
	copy(t.order, ids)
	t.cursor = 0
}

func (t *TurnOrder) Len() int { return len(t.order) }

// Current returns the turn holder, or false if the order is empty.
func (t *TurnOrder) Current() (uuid.UUID, bool) {
	if len(t.order) == 0 {
		return uuid.Nil, false
	}
	return t.order[t.cursor], true
}

// IsTurnOf reports whether id currently holds the turn.
func (t *TurnOrder) IsTurnOf(id uuid.UUID) bool {
	cur, ok := t.Current()
	return ok && cur == id
}

// Advance moves the cursor to the next participant, wrapping around.
// No-op on an empty order.
func (t *TurnOrder) Advance() {
	if len(t.order) == 0 {
		return
	}
	t.cursor = (t.cursor + 1) % len(t.order)
}

// Remove deletes id from the order. Removal never skips a turn: a removal
// at or before the cursor decrements it first, and if the removed
// participant held the turn the cursor then advances, landing on the
// participant who was next in line. Absent ids are a no-op.
//
// Returns whether id was present and whether the order is now empty (the
// caller ends the match on emptiness).
func (t *TurnOrder) Remove(id uuid.UUID) (removed, empty bool) {
	idx := -1
	for i, o := range t.order {
		if o == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, len(t.order) == 0
	}

	heldTurn := idx == t.cursor
	if idx <= t.cursor {
		t.cursor-- // may go to -1 when the first entry held the turn
	}
	t.order = append(t.order[:idx], t.order[idx+1:]...)

	if len(t.order) == 0 {
		t.cursor = 0
		return true, true
	}
	if heldTurn {
		t.cursor = (t.cursor + 1) % len(t.order)
	}
	return true, false
}

// Snapshot returns a copy of the remaining order in join order.
func (t *TurnOrder) Snapshot() []uuid.UUID {
	out := make([]uuid.UUID, len(t.order))
	copy(out, t.order)
	return out
}
