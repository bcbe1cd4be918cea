package game

import "testing"

func dealerOf(ranks ...Rank) *DealerHand {
	d := NewDealerHand()
	suits := Suits()
	for i, r := range ranks {
		d.Add(Card{Suit: suits[i%len(suits)], Rank: r})
	}
	return d
}

func TestShouldHit(t *testing.T) {
	cases := []struct {
		name   string
		ranks  []Rank
		soft17 Soft17Rule
		want   bool
	}{
		{"sixteen hits", []Rank{King, Six}, Soft17Stand, true},
		{"twelve hits", []Rank{King, Two}, Soft17Stand, true},
		{"eighteen stands", []Rank{King, Eight}, Soft17Stand, false},
		{"eighteen stands under hit rule", []Rank{King, Eight}, Soft17Hit, false},
		{"twenty stands", []Rank{King, Queen}, Soft17Hit, false},
		{"hard seventeen stands", []Rank{King, Seven}, Soft17Stand, false},
		{"hard seventeen stands under hit rule", []Rank{King, Seven}, Soft17Hit, false},
		{"soft seventeen stands by default", []Rank{Ace, Six}, Soft17Stand, false},
		{"soft seventeen hits under hit rule", []Rank{Ace, Six}, Soft17Hit, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := DefaultRules()
			rules.DealerSoft17 = tc.soft17
			if got := dealerOf(tc.ranks...).ShouldHit(rules); got != tc.want {
				t.Errorf("ShouldHit(%v, %s) = %v, want %v", tc.ranks, tc.soft17, got, tc.want)
			}
		})
	}
}

func TestVisibleCards(t *testing.T) {
	d := NewDealerHand()
	if got := d.VisibleCards(); got != nil {
		t.Errorf("empty hand shows %v", got)
	}

	d.Add(Card{Suit: Spades, Rank: King})
	if got := len(d.VisibleCards()); got != 1 {
		t.Errorf("single card hand shows %d cards", got)
	}

	d.Add(Card{Suit: Hearts, Rank: Nine})
	if got := len(d.VisibleCards()); got != 1 {
		t.Errorf("hole card hidden but %d cards visible", got)
	}

	d.RevealHoleCard()
	if got := len(d.VisibleCards()); got != 2 {
		t.Errorf("hole card revealed but only %d cards visible", got)
	}
}

func TestNewDealerHandHidesHoleCard(t *testing.T) {
	d := NewDealerHand()
	d.RevealHoleCard()
	if !d.HoleCardVisible() {
		t.Fatal("reveal did not stick")
	}
	if NewDealerHand().HoleCardVisible() {
		t.Error("fresh dealer hand starts with hole card visible")
	}
}
