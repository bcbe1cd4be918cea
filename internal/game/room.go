package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Phase is one discrete stage of a room's round lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseBetting    Phase = "BETTING"
	PhaseDealing    Phase = "DEALING"
	PhasePlayerTurn Phase = "PLAYER_TURN"
	PhaseDealerTurn Phase = "DEALER_TURN"
	PhasePayout     Phase = "PAYOUT"
	PhaseCleanup    Phase = "CLEANUP"
)

// StartingChips is the balance every player receives on first join.
const StartingChips = 1000

// PlayerState holds one seat at the table. It persists across rounds
// within a room and is removed on disconnect.
type PlayerState struct {
	ID         string
	Name       string
	Chips      int
	CurrentBet int
	Hand       *Hand
	HandStatus HandStatus
	IsActive   bool // placed a nonzero bet before dealing began
}

// phaseSpec is one row of the state machine table: the entry action run
// when the phase is entered, and the phase that follows it.
type phaseSpec struct {
	enter func(*Room)
	next  Phase
}

// phaseTable drives Advance. Timestamp bookkeeping is handled by
// setPhase so entry actions stay testable in isolation.
var phaseTable = map[Phase]phaseSpec{
	PhaseIdle:       {next: PhaseBetting},
	PhaseBetting:    {next: PhaseDealing},
	PhaseDealing:    {enter: (*Room).enterDealing, next: PhasePlayerTurn},
	PhasePlayerTurn: {next: PhaseDealerTurn},
	PhaseDealerTurn: {enter: (*Room).enterDealerTurn, next: PhasePayout},
	PhasePayout:     {enter: (*Room).enterPayout, next: PhaseCleanup},
	PhaseCleanup:    {enter: (*Room).enterCleanup, next: PhaseBetting},
}

// Room is the authoritative state machine for one table: its shoe,
// dealer hand, seated players and phase. Rooms are not safe for
// concurrent use; the registry serializes all access.
type Room struct {
	id              string
	phase           Phase
	shoe            *Shoe
	dealer          *DealerHand
	players         map[string]*PlayerState
	order           []string // player ids in join order (display order)
	currentPlayerID string   // meaningful only during PlayerTurn
	phaseStart      time.Time
	rules           Rules
	log             *zap.Logger
}

// NewRoom creates an idle room with a fresh shuffled shoe.
func NewRoom(id string, rules Rules, log *zap.Logger) *Room {
	if log == nil {
		log = zap.NewNop()
	}
	return &Room{
		id:         id,
		phase:      PhaseIdle,
		shoe:       NewShoe(rules.DeckCount),
		dealer:     NewDealerHand(),
		players:    make(map[string]*PlayerState),
		phaseStart: time.Now(),
		rules:      rules,
		log:        log,
	}
}

func (r *Room) ID() string       { return r.id }
func (r *Room) Phase() Phase     { return r.phase }
func (r *Room) Rules() Rules     { return r.rules }
func (r *Room) Shoe() *Shoe      { return r.shoe }
func (r *Room) Empty() bool      { return len(r.players) == 0 }
func (r *Room) PlayerCount() int { return len(r.players) }

// Dealer returns the dealer's hand for the current round.
func (r *Room) Dealer() *DealerHand { return r.dealer }

// CurrentPlayerID returns the id the turn marker points at, or "" when
// no turn is in progress.
func (r *Room) CurrentPlayerID() string { return r.currentPlayerID }

// Player returns the seat for id, or nil if the player never joined.
func (r *Room) Player(id string) *PlayerState { return r.players[id] }

// Players returns the seats in join order.
func (r *Room) Players() []*PlayerState {
	out := make([]*PlayerState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// AddPlayer seats a new player with the starting balance. Re-joining
// with a known id is a no-op. The first join moves an idle room into
// Betting.
func (r *Room) AddPlayer(id, name string) *PlayerState {
	if p, ok := r.players[id]; ok {
		return p
	}
	p := &PlayerState{
		ID:         id,
		Name:       name,
		Chips:      StartingChips,
		Hand:       &Hand{},
		HandStatus: StatusPlaying,
	}
	r.players[id] = p
	r.order = append(r.order, id)
	if r.phase == PhaseIdle {
		r.setPhase(PhaseBetting)
	}
	return p
}

// RemovePlayer drops a player from the room. Reports whether the player
// was seated.
func (r *Room) RemovePlayer(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Bet wagers amount for the player. Legal only during Betting; the
// amount must reach the table minimum and fit the player's balance.
func (r *Room) Bet(playerID string, amount int) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if r.phase != PhaseBetting {
		return fmt.Errorf("bet during %s: %w", r.phase, ErrIllegalPhase)
	}
	if amount < r.rules.MinBet || amount > p.Chips {
		return fmt.Errorf("bet %d (min %d, balance %d): %w", amount, r.rules.MinBet, p.Chips, ErrInvalidBet)
	}
	p.Chips -= amount
	p.CurrentBet = amount
	return nil
}

// Hit draws one card into the player's hand, marking it Busted past 21.
// Legal only during PlayerTurn. It never advances the phase or moves
// the turn marker.
func (r *Room) Hit(playerID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("hit during %s: %w", r.phase, ErrIllegalPhase)
	}
	p.Hand.Add(r.draw())
	if p.Hand.IsBust() {
		p.HandStatus = StatusBusted
	}
	return nil
}

// Stand marks the player's hand Standing. Legal only during PlayerTurn.
// It never advances the phase or moves the turn marker.
func (r *Room) Stand(playerID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("stand during %s: %w", r.phase, ErrIllegalPhase)
	}
	p.HandStatus = StatusStanding
	return nil
}

// Advance moves the room to the next phase in the cycle, running the
// entered phase's entry action, and returns the new phase. Callers that
// land on Dealing are expected to advance once more so a round always
// comes to rest on PlayerTurn.
func (r *Room) Advance() Phase {
	next := phaseTable[r.phase].next
	r.setPhase(next)
	if enter := phaseTable[next].enter; enter != nil {
		enter(r)
	}
	return next
}

// setPhase re-stamps phaseStart so remaining-time queries stay
// consistent across every transition.
func (r *Room) setPhase(p Phase) {
	r.phase = p
	r.phaseStart = time.Now()
}

// TimerRemaining returns whole seconds left in the current phase,
// rounded up and floored at zero.
func (r *Room) TimerRemaining() int {
	remaining := r.rules.PhaseDuration - time.Since(r.phaseStart)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// draw takes the next card from the shoe. An exhausted shoe is rebuilt
// to a fresh shuffled state so dealing never silently skips a card.
func (r *Room) draw() Card {
	card, ok := r.shoe.Draw()
	if !ok {
		r.log.Info("shoe exhausted, rebuilding",
			zap.String("room", r.id),
			zap.Int("decks", r.shoe.DeckCount()))
		r.shoe.Rebuild()
		card, _ = r.shoe.Draw()
	}
	return card
}

// enterDealing starts the round: hands and statuses reset, isActive
// snapshotted from the bets on the table, then two passes of one card
// to each active player followed by one to the dealer. Naturals are
// flagged and the turn marker lands on the first active player.
func (r *Room) enterDealing() {
	for _, id := range r.order {
		p := r.players[id]
		p.Hand.Reset()
		p.HandStatus = StatusPlaying
		p.IsActive = p.CurrentBet > 0
	}
	for pass := 0; pass < 2; pass++ {
		for _, id := range r.order {
			if p := r.players[id]; p.IsActive {
				p.Hand.Add(r.draw())
			}
		}
		r.dealer.Add(r.draw())
	}
	r.currentPlayerID = ""
	for _, id := range r.order {
		p := r.players[id]
		if !p.IsActive {
			continue
		}
		if p.Hand.IsBlackjack() {
			p.HandStatus = StatusBlackjack
		}
		if r.currentPlayerID == "" {
			r.currentPlayerID = id
		}
	}
}

// enterDealerTurn reveals the hole card and plays out the dealer's
// fixed policy before the room leaves the phase.
func (r *Room) enterDealerTurn() {
	r.dealer.RevealHoleCard()
	for r.dealer.ShouldHit(r.rules) {
		r.dealer.Add(r.draw())
	}
}

// enterPayout settles every active seat against the dealer: busted
// hands lose their bet, naturals pay 3:2 unless the dealer also holds
// one, and the rest win even money against a dealer bust or lower
// score, push on a tie, and lose otherwise.
func (r *Room) enterPayout() {
	dealerScore := r.dealer.Score()
	dealerBust := dealerScore > 21
	dealerNatural := r.dealer.IsBlackjack()

	for _, id := range r.order {
		p := r.players[id]
		if !p.IsActive {
			continue
		}
		switch p.HandStatus {
		case StatusBusted:
			// Bet was debited when placed; nothing comes back.
		case StatusBlackjack:
			if dealerNatural {
				p.Chips += p.CurrentBet
			} else {
				p.Chips += p.CurrentBet + int(float64(p.CurrentBet)*r.rules.BlackjackPayout)
			}
		default:
			score := p.Hand.Score()
			if dealerBust || score > dealerScore {
				p.Chips += p.CurrentBet * 2
			} else if score == dealerScore {
				p.Chips += p.CurrentBet
			}
		}
	}
}

// enterCleanup resets every seat and the dealer for the next round.
func (r *Room) enterCleanup() {
	for _, id := range r.order {
		p := r.players[id]
		p.CurrentBet = 0
		p.Hand.Reset()
		p.HandStatus = StatusPlaying
		p.IsActive = false
	}
	r.dealer = NewDealerHand()
	r.currentPlayerID = ""
}
