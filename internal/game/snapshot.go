package game

// CardView is a card as shown to clients. The dealer's hole card is
// masked as {"?", "?"} until revealed.
type CardView struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// PlayerView is one seat as shown to clients.
type PlayerView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Chips      int        `json:"chips"`
	CurrentBet int        `json:"currentBet"`
	Hand       []CardView `json:"hand"`
	Score      int        `json:"score"`
	HandStatus HandStatus `json:"handStatus"`
	IsTurn     bool       `json:"isTurn"`
}

// Snapshot is the display projection of a room, broadcast to every
// connection in the room after each successful join, action or phase
// advance.
type Snapshot struct {
	RoomID         string       `json:"roomId"`
	Phase          Phase        `json:"phase"`
	DealerHand     []CardView   `json:"dealerHand"`
	Players        []PlayerView `json:"players"`
	TimerRemaining int          `json:"timerRemaining"`
}

// Snapshot builds the room's display projection. Players appear in join
// order; isTurn marks only the player the turn pointer rests on.
func (r *Room) Snapshot() Snapshot {
	snap := Snapshot{
		RoomID:         r.id,
		Phase:          r.phase,
		DealerHand:     r.dealerView(),
		Players:        make([]PlayerView, 0, len(r.order)),
		TimerRemaining: r.TimerRemaining(),
	}
	for _, p := range r.Players() {
		hand := make([]CardView, 0, p.Hand.Size())
		for _, c := range p.Hand.Cards() {
			hand = append(hand, CardView{Suit: string(c.Suit), Rank: string(c.Rank)})
		}
		snap.Players = append(snap.Players, PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			Hand:       hand,
			Score:      p.Hand.Score(),
			HandStatus: p.HandStatus,
			IsTurn:     p.ID == r.currentPlayerID,
		})
	}
	return snap
}

// dealerView exposes the dealer's visible cards, padding hidden ones
// with the "?" placeholder so clients still see the card count.
func (r *Room) dealerView() []CardView {
	visible := r.dealer.VisibleCards()
	out := make([]CardView, 0, r.dealer.Size())
	for _, c := range visible {
		out = append(out, CardView{Suit: string(c.Suit), Rank: string(c.Rank)})
	}
	for i := len(visible); i < r.dealer.Size(); i++ {
		out = append(out, CardView{Suit: "?", Rank: "?"})
	}
	return out
}
