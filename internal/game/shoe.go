package game

import (
	"math/rand"
	"time"
)

// Shoe is the multi-deck pool of cards a room draws from during a round.
type Shoe struct {
	cards     []Card
	deckCount int
	rng       *rand.Rand
}

// NewShoe builds a shoe of deckCount full 52-card decks and shuffles it.
func NewShoe(deckCount int) *Shoe {
	s := &Shoe{
		deckCount: deckCount,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.fill()
	s.Shuffle()
	return s
}

func (s *Shoe) fill() {
	s.cards = make([]Card, 0, 52*s.deckCount)
	for d := 0; d < s.deckCount; d++ {
		for _, suit := range Suits() {
			for _, rank := range Ranks() {
				s.cards = append(s.cards, Card{Suit: suit, Rank: rank})
			}
		}
	}
}

// Shuffle applies a Fisher-Yates shuffle, independent of prior order.
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card. The second return is false when
// the shoe is exhausted.
func (s *Shoe) Draw() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, true
}

// Rebuild restores the shoe to a fresh shuffled state of deckCount decks.
func (s *Shoe) Rebuild() {
	s.fill()
	s.Shuffle()
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DeckCount returns the number of decks the shoe was built from.
func (s *Shoe) DeckCount() int {
	return s.deckCount
}
