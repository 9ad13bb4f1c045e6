package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mysterious-guests/cardtable/internal/models"
)

// Table owns the server-side draw pile and discard pile. It is pure card
// storage: hand ownership is validated by the Match before anything lands
// here. The last index of the draw pile is the top.
type Table struct {
	drawPile []models.Card
	discard  []models.Card
}

// BuildAndShuffle clears both piles, regenerates deckCount standard decks
// and applies a Fisher-Yates permutation to form the new draw pile.
func (t *Table) BuildAndShuffle(deckCount int) error {
	if deckCount < 1 {
		return fmt.Errorf("%w: deck count %d", ErrInvalidArgument, deckCount)
	}
	t.drawPile = models.BuildStandardDeck(deckCount)
	t.discard = nil

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(t.drawPile), func(i, j int) {
		t.drawPile[i], t.drawPile[j] = t.drawPile[j], t.drawPile[i]
	})
	return nil
}

// Draw pops up to n cards from the top of the draw pile. Fewer than n come
// back when the pile runs out; an exhausted pile is not an error, callers
// decide whether that ends the round.
func (t *Table) Draw(n int) []models.Card {
	if n <= 0 {
		return nil
	}
	if n > len(t.drawPile) {
		n = len(t.drawPile)
	}
	cut := len(t.drawPile) - n
	drawn := make([]models.Card, n)
	for i := 0; i < n; i++ {
		drawn[i] = t.drawPile[len(t.drawPile)-1-i]
	}
	t.drawPile = t.drawPile[:cut]
	return drawn
}

// Play appends card to the discard pile, making it publicly visible.
func (t *Table) Play(card models.Card) {
	t.discard = append(t.discard, card)
}

func (t *Table) DrawPileSize() int { return len(t.drawPile) }

// Discard returns a copy of the played-card sequence, oldest first.
func (t *Table) Discard() []models.Card {
	out := make([]models.Card, len(t.discard))
	copy(out, t.discard)
	return out
}

// TopDiscard returns the most recently played card, if any.
func (t *Table) TopDiscard() (models.Card, bool) {
	if len(t.discard) == 0 {
		return models.Card{}, false
	}
	return t.discard[len(t.discard)-1], true
}
