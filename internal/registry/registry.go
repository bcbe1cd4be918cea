// Package registry owns the mapping from room id to room state and the
// per-room phase timers. Every mutation of a room runs under the
// registry lock, so action handling and timer-driven phase advances for
// a room never interleave and rooms need no locking of their own.
package registry

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joker-games/joker-server/internal/game"
)

// AdvanceFunc receives the room snapshot produced by a timer-driven
// phase advance, after the advance has fully applied.
type AdvanceFunc func(game.Snapshot)

type roomEntry struct {
	room      *game.Room
	timerStop chan struct{} // nil when no timer is running
}

// Registry creates rooms on first join, destroys them when the last
// player leaves, and drives their phase timers.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*roomEntry
	rules game.Rules
	log   *zap.Logger
}

// New returns an empty registry using the given table rules.
func New(rules game.Rules, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		rooms: make(map[string]*roomEntry),
		rules: rules,
		log:   log.Named("registry"),
	}
}

// Join seats the player in the room, creating the room on first sight
// (a fresh shoe, Idle moving straight to Betting) and the player on
// first sight with the starting balance. Repeat joins are idempotent.
func (r *Registry) Join(roomID, playerID, name string) (game.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		entry = &roomEntry{room: game.NewRoom(roomID, r.rules, r.log)}
		r.rooms[roomID] = entry
		r.log.Info("room created", zap.String("room", roomID))
	}
	entry.room.AddPlayer(playerID, name)
	return entry.room.Snapshot(), nil
}

// RemovePlayer drops the player from the room. When the room empties,
// its timer is stopped and the room is destroyed.
func (r *Registry) RemovePlayer(roomID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		return
	}
	entry.room.RemovePlayer(playerID)
	if entry.room.Empty() {
		r.stopTimerLocked(entry)
		delete(r.rooms, roomID)
		r.log.Info("room destroyed", zap.String("room", roomID))
	}
}

// Bet places a wager for the player in the room.
func (r *Registry) Bet(roomID, playerID string, amount int) (game.Snapshot, error) {
	return r.withRoom(roomID, func(room *game.Room) error {
		return room.Bet(playerID, amount)
	})
}

// Hit draws a card for the player in the room.
func (r *Registry) Hit(roomID, playerID string) (game.Snapshot, error) {
	return r.withRoom(roomID, func(room *game.Room) error {
		return room.Hit(playerID)
	})
}

// Stand ends the player's hand in the room.
func (r *Registry) Stand(roomID, playerID string) (game.Snapshot, error) {
	return r.withRoom(roomID, func(room *game.Room) error {
		return room.Stand(playerID)
	})
}

// AdvancePhase moves the room one step around the cycle. Landing on
// Dealing advances once more in the same step: dealing completes
// synchronously and the room comes to rest on PlayerTurn, so Dealing is
// never an observable resting phase.
func (r *Registry) AdvancePhase(roomID string) (game.Snapshot, error) {
	return r.withRoom(roomID, func(room *game.Room) error {
		if room.Advance() == game.PhaseDealing {
			room.Advance()
		}
		return nil
	})
}

// PhaseTimeout handles a client-reported timer expiry. The advance only
// happens while the reported phase still matches the room's, so a stale
// report of an already-advanced room is a no-op.
func (r *Registry) PhaseTimeout(roomID string, observed game.Phase) (game.Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		return game.Snapshot{}, false, game.ErrRoomNotFound
	}
	if entry.room.Phase() != observed {
		return entry.room.Snapshot(), false, nil
	}
	if entry.room.Advance() == game.PhaseDealing {
		entry.room.Advance()
	}
	return entry.room.Snapshot(), true, nil
}

// StartPhaseTimer begins the room's periodic phase advance. A second
// call while a timer is active is a no-op, so a room never has more
// than one timer ticking.
func (r *Registry) StartPhaseTimer(roomID string, onAdvance AdvanceFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		return game.ErrRoomNotFound
	}
	if entry.timerStop != nil {
		return nil
	}
	stop := make(chan struct{})
	entry.timerStop = stop
	go r.runTimer(roomID, stop, onAdvance)
	return nil
}

// StopPhaseTimer cancels the room's timer if one is running.
func (r *Registry) StopPhaseTimer(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.rooms[roomID]; ok {
		r.stopTimerLocked(entry)
	}
}

// TimerRemaining returns the whole seconds left in the room's current
// phase. The second return is false for unknown rooms.
func (r *Registry) TimerRemaining(roomID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		return 0, false
	}
	return entry.room.TimerRemaining(), true
}

// RoomInfo summarizes one live room for listings.
type RoomInfo struct {
	ID          string     `json:"id"`
	Phase       game.Phase `json:"phase"`
	PlayerCount int        `json:"playerCount"`
}

// Rooms lists the live rooms.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RoomInfo, 0, len(r.rooms))
	for id, entry := range r.rooms {
		out = append(out, RoomInfo{
			ID:          id,
			Phase:       entry.room.Phase(),
			PlayerCount: entry.room.PlayerCount(),
		})
	}
	return out
}

// withRoom applies fn to the room under the registry lock and returns
// the snapshot taken after fn fully applied. Failed actions return the
// error without a snapshot and leave the room untouched.
func (r *Registry) withRoom(roomID string, fn func(*game.Room) error) (game.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[roomID]
	if !ok {
		return game.Snapshot{}, fmt.Errorf("room %q: %w", roomID, game.ErrRoomNotFound)
	}
	if err := fn(entry.room); err != nil {
		return game.Snapshot{}, err
	}
	return entry.room.Snapshot(), nil
}

func (r *Registry) stopTimerLocked(entry *roomEntry) {
	if entry.timerStop != nil {
		close(entry.timerStop)
		entry.timerStop = nil
	}
}

// runTimer advances the room on a fixed cadence until stopped or the
// room disappears. Each tick runs to completion under the registry
// lock; callbacks fire after the lock is released.
func (r *Registry) runTimer(roomID string, stop <-chan struct{}, onAdvance AdvanceFunc) {
	ticker := time.NewTicker(r.rules.PhaseDuration)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if done := r.tick(roomID, onAdvance); done {
				return
			}
		}
	}
}

// tick performs one timer-driven advance. A panic inside the advance or
// the callback is recovered and logged; the timer loop keeps ticking.
func (r *Registry) tick(roomID string, onAdvance AdvanceFunc) (done bool) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Error("phase timer tick failed",
				zap.String("room", roomID),
				zap.Any("panic", v))
		}
	}()

	snap, err := r.AdvancePhase(roomID)
	if err != nil {
		// Room is gone; the timer has nothing left to drive.
		return true
	}
	if onAdvance != nil {
		onAdvance(snap)
	}
	return false
}
