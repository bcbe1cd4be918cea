package registry

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joker-games/joker-server/internal/game"
)

func fastRules() game.Rules {
	rules := game.DefaultRules()
	rules.PhaseDuration = 20 * time.Millisecond
	return rules
}

func TestJoinCreatesRoomAndPlayer(t *testing.T) {
	reg := New(game.DefaultRules(), nil)

	snap, err := reg.Join("r1", "p1", "Alice")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if snap.Phase != game.PhaseBetting {
		t.Errorf("phase = %s, want %s", snap.Phase, game.PhaseBetting)
	}
	if len(snap.Players) != 1 {
		t.Fatalf("player count = %d, want 1", len(snap.Players))
	}
	p := snap.Players[0]
	if p.ID != "p1" || p.Name != "Alice" || p.Chips != game.StartingChips {
		t.Errorf("unexpected player: %+v", p)
	}

	// Idempotent rejoin.
	snap, err = reg.Join("r1", "p1", "Alice")
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if len(snap.Players) != 1 {
		t.Errorf("player count after rejoin = %d, want 1", len(snap.Players))
	}
}

func TestActionsOnUnknownRoom(t *testing.T) {
	reg := New(game.DefaultRules(), nil)

	if _, err := reg.Bet("ghost", "p1", 10); !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("bet error = %v, want ErrRoomNotFound", err)
	}
	if _, err := reg.AdvancePhase("ghost"); !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("advance error = %v, want ErrRoomNotFound", err)
	}
	if err := reg.StartPhaseTimer("ghost", nil); !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("start timer error = %v, want ErrRoomNotFound", err)
	}
	if _, ok := reg.TimerRemaining("ghost"); ok {
		t.Error("timer remaining reported for unknown room")
	}
}

func TestAdvanceRunsThroughDealing(t *testing.T) {
	reg := New(game.DefaultRules(), nil)
	reg.Join("r1", "p1", "A")
	reg.Join("r1", "p2", "B")
	if _, err := reg.Bet("r1", "p1", 10); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Bet("r1", "p2", 10); err != nil {
		t.Fatal(err)
	}

	// One external advance out of Betting lands on PlayerTurn: dealing
	// completes inside the same step.
	snap, err := reg.AdvancePhase("r1")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Phase != game.PhasePlayerTurn {
		t.Fatalf("phase = %s, want %s", snap.Phase, game.PhasePlayerTurn)
	}
	for _, p := range snap.Players {
		if len(p.Hand) != 2 {
			t.Errorf("player %s shows %d cards, want 2", p.ID, len(p.Hand))
		}
	}
	if len(snap.DealerHand) != 2 || snap.DealerHand[1].Rank != "?" {
		t.Errorf("dealer hand not two cards with a masked hole card: %+v", snap.DealerHand)
	}
}

func TestPhaseTimeout(t *testing.T) {
	reg := New(game.DefaultRules(), nil)
	reg.Join("r1", "p1", "A")

	// Stale report: room already moved on from the observed phase.
	snap, advanced, err := reg.PhaseTimeout("r1", game.PhasePlayerTurn)
	if err != nil {
		t.Fatal(err)
	}
	if advanced {
		t.Error("stale phase report advanced the room")
	}
	if snap.Phase != game.PhaseBetting {
		t.Errorf("phase = %s, want %s", snap.Phase, game.PhaseBetting)
	}

	// Matching report advances (Betting with no bets still deals through
	// to PlayerTurn with an empty table).
	snap, advanced, err = reg.PhaseTimeout("r1", game.PhaseBetting)
	if err != nil {
		t.Fatal(err)
	}
	if !advanced {
		t.Error("matching phase report did not advance")
	}
	if snap.Phase != game.PhasePlayerTurn {
		t.Errorf("phase = %s, want %s", snap.Phase, game.PhasePlayerTurn)
	}
}

func TestRemoveLastPlayerDestroysRoom(t *testing.T) {
	reg := New(fastRules(), nil)
	reg.Join("r1", "p1", "A")
	if err := reg.StartPhaseTimer("r1", nil); err != nil {
		t.Fatal(err)
	}

	reg.RemovePlayer("r1", "p1")

	if _, err := reg.Bet("r1", "p1", 10); !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("bet after room destroyed error = %v, want ErrRoomNotFound", err)
	}
	if _, ok := reg.TimerRemaining("r1"); ok {
		t.Error("destroyed room still reports a timer")
	}

	// Outstanding ticks for the dead room must neither crash nor revive it.
	time.Sleep(60 * time.Millisecond)
	if got := len(reg.Rooms()); got != 0 {
		t.Errorf("room list has %d entries after destruction, want 0", got)
	}
}

func TestStartPhaseTimerIdempotent(t *testing.T) {
	reg := New(fastRules(), nil)
	reg.Join("r1", "p1", "A")

	var advances int32
	onAdvance := func(game.Snapshot) { atomic.AddInt32(&advances, 1) }
	if err := reg.StartPhaseTimer("r1", onAdvance); err != nil {
		t.Fatal(err)
	}
	if err := reg.StartPhaseTimer("r1", onAdvance); err != nil {
		t.Fatal(err)
	}

	time.Sleep(110 * time.Millisecond)
	reg.StopPhaseTimer("r1")
	got := atomic.LoadInt32(&advances)

	// One 20ms timer fires roughly five times in 110ms; a duplicate
	// would roughly double that.
	if got < 3 || got > 7 {
		t.Errorf("observed %d advances, want about 5 from a single timer", got)
	}

	// Stopped timer stays stopped.
	before := atomic.LoadInt32(&advances)
	time.Sleep(60 * time.Millisecond)
	if after := atomic.LoadInt32(&advances); after != before {
		t.Errorf("timer advanced %d more times after stop", after-before)
	}
}

func TestTimerDrivesPhases(t *testing.T) {
	reg := New(fastRules(), nil)
	reg.Join("r1", "p1", "A")

	phases := make(chan game.Phase, 16)
	if err := reg.StartPhaseTimer("r1", func(s game.Snapshot) {
		phases <- s.Phase
	}); err != nil {
		t.Fatal(err)
	}
	defer reg.StopPhaseTimer("r1")

	// First tick leaves Betting and runs through Dealing.
	select {
	case p := <-phases:
		if p != game.PhasePlayerTurn {
			t.Errorf("first timer advance landed on %s, want %s", p, game.PhasePlayerTurn)
		}
	case <-time.After(time.Second):
		t.Fatal("timer never advanced the room")
	}
}

func TestTimerRemaining(t *testing.T) {
	reg := New(game.DefaultRules(), nil)
	reg.Join("r1", "p1", "A")

	remaining, ok := reg.TimerRemaining("r1")
	if !ok {
		t.Fatal("no timer remaining for live room")
	}
	if remaining <= 0 || remaining > 15 {
		t.Errorf("remaining = %d, want within (0, 15]", remaining)
	}
}

func TestRoomsListing(t *testing.T) {
	reg := New(game.DefaultRules(), nil)
	reg.Join("r1", "p1", "A")
	reg.Join("r2", "p2", "B")

	rooms := reg.Rooms()
	if len(rooms) != 2 {
		t.Fatalf("room count = %d, want 2", len(rooms))
	}
	for _, info := range rooms {
		if info.PlayerCount != 1 || info.Phase != game.PhaseBetting {
			t.Errorf("unexpected room info: %+v", info)
		}
	}
}
