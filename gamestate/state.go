// Package gamestate defines the read-only world snapshot consumed by the
// observation builder.
package gamestate

import (
	"fmt"

	"github.com/pthm-cable/advobs/physics"
)

// Team identifies one of the two sides.
type Team uint8

const (
	TeamBlue   Team = iota // Attacks +Y
	TeamOrange             // Observed mirrored
)

// String returns the team name.
func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "blue"
	case TeamOrange:
		return "orange"
	default:
		return "unknown"
	}
}

// ActionLen is the number of controller inputs in an Action.
const ActionLen = 8

// Action holds one tick of controller inputs.
// Layout: throttle, steer, pitch, yaw, roll, jump, boost, handbrake.
type Action [ActionLen]float32

// Player is a car and its controller state at one tick.
type Player struct {
	CarID uint32
	Team  Team
	Phys  physics.PhysState
	Boost float32 // [0,100]

	OnGround  bool
	IsDemoed  bool
	HasJumped bool
	HasFlip   bool
	HasJump   bool

	PrevAction Action
}

// HasFlipOrJump reports whether the car can still jump or flip.
func (p *Player) HasFlipOrJump() bool {
	return p.HasFlip || p.HasJump
}

// GameState is a snapshot of the ball, the roster and both boost pad views.
// The *Inv arrays hold the pads as seen from the orange side.
type GameState struct {
	Ball    physics.PhysState
	Players []Player

	BoostPads         [BoostPadCount]bool
	BoostPadsInv      [BoostPadCount]bool
	BoostPadTimers    [BoostPadCount]float32
	BoostPadTimersInv [BoostPadCount]float32
}

// NewGameState builds a snapshot and derives the mirrored pad views.
// Players is used as given; its order is the roster order.
func NewGameState(ball physics.PhysState, players []Player, pads [BoostPadCount]bool, timers [BoostPadCount]float32) *GameState {
	s := &GameState{
		Ball:           ball,
		Players:        players,
		BoostPads:      pads,
		BoostPadTimers: timers,
	}
	for i := 0; i < BoostPadCount; i++ {
		s.BoostPadsInv[MirrorPadIndex(i)] = pads[i]
		s.BoostPadTimersInv[MirrorPadIndex(i)] = timers[i]
	}
	return s
}

// GetBoostPads returns pad availability from the requested perspective.
func (s *GameState) GetBoostPads(inverted bool) *[BoostPadCount]bool {
	if inverted {
		return &s.BoostPadsInv
	}
	return &s.BoostPads
}

// GetBoostPadTimers returns pad respawn timers from the requested perspective.
func (s *GameState) GetBoostPadTimers(inverted bool) *[BoostPadCount]float32 {
	if inverted {
		return &s.BoostPadTimersInv
	}
	return &s.BoostPadTimers
}

// PlayerByID returns the roster entry with the given car id.
func (s *GameState) PlayerByID(carID uint32) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].CarID == carID {
			return &s.Players[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Players = make([]Player, len(s.Players))
	copy(c.Players, s.Players)
	return &c
}

// ParseTeam converts a team name to a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "blue", "0":
		return TeamBlue, nil
	case "orange", "1":
		return TeamOrange, nil
	default:
		return 0, fmt.Errorf("unknown team %q", s)
	}
}
