package game

// HandStatus tracks a player's standing within the current round.
// Busted and Standing are monotonic until the round resets.
type HandStatus string

const (
	StatusPlaying   HandStatus = "Playing"
	StatusStanding  HandStatus = "Standing"
	StatusBusted    HandStatus = "Busted"
	StatusBlackjack HandStatus = "Blackjack"
)

// Hand is an append-only ordered sequence of cards. It is replaced
// wholesale at the start of a new round, never trimmed card by card.
type Hand struct {
	cards []Card
}

// Add appends a card to the hand.
func (h *Hand) Add(c Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the hand's cards in deal order.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Size returns the number of cards in the hand.
func (h *Hand) Size() int {
	return len(h.cards)
}

// Reset empties the hand for a new round.
func (h *Hand) Reset() {
	h.cards = nil
}

// Score computes the blackjack value of the hand. Non-ace ranks sum at
// face value (face cards 10). Each ace then resolves from 11 down to 1,
// taking 11 only if that plus one point for every ace still unresolved
// keeps the total at 21 or under. The result is the highest total not
// exceeding 21 when one exists, and the lowest bust total otherwise.
// Always recomputed from the cards, never cached.
func (h *Hand) Score() int {
	score := 0
	aces := 0
	for _, c := range h.cards {
		if c.Rank == Ace {
			aces++
		} else {
			score += c.Value()
		}
	}
	for j := aces; j > 0; j-- {
		if score+11+(j-1) > 21 {
			score++
		} else {
			score += 11
		}
	}
	return score
}

// IsBust reports whether the hand's score exceeds 21.
func (h *Hand) IsBust() bool {
	return h.Score() > 21
}

// IsSoft reports whether the hand holds an ace and scores under 21.
// This is a deliberately loose proxy for "an ace counts as 11": the
// dealer's soft-17 policy keys off exactly this predicate.
func (h *Hand) IsSoft() bool {
	if h.Score() >= 21 {
		return false
	}
	for _, c := range h.cards {
		if c.Rank == Ace {
			return true
		}
	}
	return false
}

// IsBlackjack reports a natural: exactly two cards totalling 21.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Score() == 21
}
