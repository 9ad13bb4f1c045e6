package models

import (
	"errors"
	"fmt"
)

// ErrInvalidCard rejects rank/suit values outside the card space, whether
// from a constructor call or a decoded wire byte.
var ErrInvalidCard = errors.New("invalid card")

// Suit is one of the four french suits. It occupies the low 2 bits of the
// packed card encoding.
type Suit uint8

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

var suitLetters = map[Suit]string{
	SuitClubs:    "C",
	SuitDiamonds: "D",
	SuitHearts:   "H",
	SuitSpades:   "S",
}

func (s Suit) String() string {
	if l, ok := suitLetters[s]; ok {
		return l
	}
	return fmt.Sprintf("Suit(%d)", uint8(s))
}

// Rank runs from Two (2) through Ace (14). It occupies the high 6 bits of
// the packed card encoding.
type Rank uint8

const (
	RankTwo Rank = iota + 2
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

var rankNames = map[Rank]string{
	RankTwo:   "2",
	RankThree: "3",
	RankFour:  "4",
	RankFive:  "5",
	RankSix:   "6",
	RankSeven: "7",
	RankEight: "8",
	RankNine:  "9",
	RankTen:   "10",
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
	RankAce:   "A",
}

func (r Rank) String() string {
	if n, ok := rankNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Rank(%d)", uint8(r))
}

// Card is an immutable card value. Two cards with the same rank and suit
// are interchangeable; there is no per-card identity.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard validates rank and suit before constructing a card.
func NewCard(r Rank, s Suit) (Card, error) {
	if r < RankTwo || r > RankAce {
		return Card{}, fmt.Errorf("%w: rank %d out of range 2..14", ErrInvalidCard, r)
	}
	if s > SuitSpades {
		return Card{}, fmt.Errorf("%w: suit %d out of range 0..3", ErrInvalidCard, s)
	}
	return Card{Rank: r, Suit: s}, nil
}

// Encode packs the card into a single byte: 6 bits of rank, 2 bits of suit.
func (c Card) Encode() byte {
	return byte(c.Rank)<<2 | byte(c.Suit)&0x03
}

// DecodeCard inverts Encode exactly for any byte produced by it.
func DecodeCard(b byte) (Card, error) {
	return NewCard(Rank(b>>2), Suit(b&0x03))
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// BuildStandardDeck returns 52*deckCount cards in a fixed enumeration
// order: suit-major, rank-minor. Callers wanting a shuffled pile permute
// the result themselves.
func BuildStandardDeck(deckCount int) []Card {
	if deckCount < 1 {
		return nil
	}
	deck := make([]Card, 0, 52*deckCount)
	for d := 0; d < deckCount; d++ {
		for s := SuitClubs; s <= SuitSpades; s++ {
			for r := RankTwo; r <= RankAce; r++ {
				deck = append(deck, Card{Rank: r, Suit: s})
			}
		}
	}
	return deck
}
