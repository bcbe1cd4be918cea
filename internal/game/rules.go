package game

import "time"

// Soft17Rule selects how the dealer plays a soft 17.
type Soft17Rule string

const (
	Soft17Hit   Soft17Rule = "HIT"
	Soft17Stand Soft17Rule = "STAND"
)

// Rules holds the fixed table configuration for a room.
type Rules struct {
	DeckCount       int
	BlackjackPayout float64 // winnings multiplier on the bet for a natural
	DealerSoft17    Soft17Rule
	MinBet          int
	MaxBet          int
	PhaseDuration   time.Duration
}

// DefaultRules returns the standard table: six decks, 3:2 blackjack
// payout, dealer stands on soft 17, bets 10-500, 15 second phases.
func DefaultRules() Rules {
	return Rules{
		DeckCount:       6,
		BlackjackPayout: 1.5,
		DealerSoft17:    Soft17Stand,
		MinBet:          10,
		MaxBet:          500,
		PhaseDuration:   15 * time.Second,
	}
}
