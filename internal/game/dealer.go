package game

// DealerHand is a hand with one extra piece of state: whether the hole
// card (the second dealt card) has been revealed this round. A fresh
// DealerHand starts with the hole card hidden.
type DealerHand struct {
	Hand
	holeCardVisible bool
}

// NewDealerHand returns an empty dealer hand with the hole card hidden.
func NewDealerHand() *DealerHand {
	return &DealerHand{}
}

// RevealHoleCard marks the hole card visible. Called exactly once per
// round, when the dealer's turn begins.
func (d *DealerHand) RevealHoleCard() {
	d.holeCardVisible = true
}

// HoleCardVisible reports whether the hole card has been revealed.
func (d *DealerHand) HoleCardVisible() bool {
	return d.holeCardVisible
}

// VisibleCards returns the cards players are allowed to see: everything
// once the hole card is revealed or while the dealer holds a single
// card, otherwise only the first card.
func (d *DealerHand) VisibleCards() []Card {
	if d.Size() == 0 {
		return nil
	}
	if d.holeCardVisible || d.Size() == 1 {
		return d.Cards()
	}
	return d.Cards()[:1]
}

// ShouldHit applies the dealer's fixed policy: stand on 18 or more, hit
// on 16 or less, and on exactly 17 hit only when the table hits soft 17
// and the hand is soft.
func (d *DealerHand) ShouldHit(rules Rules) bool {
	score := d.Score()
	if score >= 18 {
		return false
	}
	if score <= 16 {
		return true
	}
	if rules.DealerSoft17 == Soft17Hit {
		return d.IsSoft()
	}
	return false
}
