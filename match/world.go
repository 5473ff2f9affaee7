// Package match keeps a live match roster and hands out read-only
// snapshots for observation building.
package match

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/physics"
)

// Pickup geometry and boost amounts.
const (
	SmallPadRadius = 144.0
	BigPadRadius   = 208.0
	SmallPadBoost  = 12.0
	BigPadBoost    = 100.0
	MaxBoost       = 100.0
)

// Identity holds the immutable part of a car.
type Identity struct {
	CarID uint32
	Team  gamestate.Team
}

// Physics holds a car's physical state.
type Physics struct {
	State physics.PhysState
}

// Status holds a car's boost and controller flags.
type Status struct {
	Boost      float32
	OnGround   bool
	IsDemoed   bool
	HasJumped  bool
	HasFlip    bool
	HasJump    bool
	PrevAction gamestate.Action
}

// World is the mutable match state. It is not safe for concurrent use;
// take a Snapshot and share that instead.
type World struct {
	world  *ecs.World
	cars   *ecs.Map3[Identity, Physics, Status]
	filter *ecs.Filter3[Identity, Physics, Status]

	// roster keeps spawn order, which is the order players appear in snapshots.
	roster []ecs.Entity
	byID   map[uint32]ecs.Entity

	ball   physics.PhysState
	pads   [gamestate.BoostPadCount]bool
	timers [gamestate.BoostPadCount]float32
	tick   int64
}

// NewWorld creates an empty match with the ball at rest and every pad up.
func NewWorld() *World {
	world := ecs.NewWorld()
	w := &World{
		world:  world,
		cars:   ecs.NewMap3[Identity, Physics, Status](world),
		filter: ecs.NewFilter3[Identity, Physics, Status](world),
		byID:   make(map[uint32]ecs.Entity),
		ball:   physics.PhysState{RotMat: physics.Identity()},
	}
	for i := range w.pads {
		w.pads[i] = true
	}
	return w
}

// Spawn adds a car to the end of the roster.
func (w *World) Spawn(id Identity, phys physics.PhysState, status Status) error {
	if _, ok := w.byID[id.CarID]; ok {
		return fmt.Errorf("car %d already in match", id.CarID)
	}
	e := w.cars.NewEntity(&id, &Physics{State: phys}, &status)
	w.roster = append(w.roster, e)
	w.byID[id.CarID] = e
	return nil
}

// Remove takes a car out of the match. It reports whether the car existed.
func (w *World) Remove(carID uint32) bool {
	e, ok := w.byID[carID]
	if !ok {
		return false
	}
	w.world.RemoveEntity(e)
	delete(w.byID, carID)
	for i, r := range w.roster {
		if r == e {
			w.roster = append(w.roster[:i], w.roster[i+1:]...)
			break
		}
	}
	return true
}

// NumCars returns the roster size.
func (w *World) NumCars() int {
	return len(w.roster)
}

// Tick returns the number of steps taken.
func (w *World) Tick() int64 {
	return w.tick
}

// SetBall replaces the ball state.
func (w *World) SetBall(ball physics.PhysState) {
	w.ball = ball
}

// SetAction records the controls a car applied this tick.
func (w *World) SetAction(carID uint32, action gamestate.Action) error {
	e, ok := w.byID[carID]
	if !ok {
		return fmt.Errorf("car %d not in match", carID)
	}
	_, _, status := w.cars.Get(e)
	status.PrevAction = action
	return nil
}

// SetPad sets a pad's availability and respawn timer directly.
func (w *World) SetPad(index int, available bool, timer float32) error {
	if index < 0 || index >= gamestate.BoostPadCount {
		return fmt.Errorf("pad index %d out of range", index)
	}
	w.pads[index] = available
	w.timers[index] = timer
	if available {
		w.timers[index] = 0
	}
	return nil
}

// PickUp consumes an available pad and starts its respawn timer.
// It reports whether the pad existed and was available.
func (w *World) PickUp(index int) bool {
	if index < 0 || index >= gamestate.BoostPadCount || !w.pads[index] {
		return false
	}
	w.pads[index] = false
	w.timers[index] = gamestate.BoostPadLocations[index].RespawnDelay()
	return true
}

// Step advances the match by dt seconds: cars and ball move at constant
// velocity, pad timers count down, and cars collect pads they drive over.
func (w *World) Step(dt float64) {
	w.ball.Pos = r3.Add(w.ball.Pos, r3.Scale(dt, w.ball.Vel))

	for i := range w.pads {
		if w.pads[i] {
			continue
		}
		w.timers[i] -= float32(dt)
		if w.timers[i] <= 0 {
			w.timers[i] = 0
			w.pads[i] = true
		}
	}

	query := w.filter.Query()
	for query.Next() {
		_, phys, status := query.Get()
		if status.IsDemoed {
			continue
		}
		phys.State.Pos = r3.Add(phys.State.Pos, r3.Scale(dt, phys.State.Vel))
		w.collectPads(phys.State.Pos, status)
	}

	w.tick++
}

func (w *World) collectPads(pos r3.Vec, status *Status) {
	if status.Boost >= MaxBoost {
		return
	}
	for i, pad := range gamestate.BoostPadLocations {
		if !w.pads[i] {
			continue
		}
		radius, amount := SmallPadRadius, float32(SmallPadBoost)
		if pad.Big {
			radius, amount = BigPadRadius, BigPadBoost
		}
		dx, dy := pos.X-pad.Pos.X, pos.Y-pad.Pos.Y
		if dx*dx+dy*dy > radius*radius {
			continue
		}
		w.PickUp(i)
		status.Boost += amount
		if status.Boost > MaxBoost {
			status.Boost = MaxBoost
		}
		return
	}
}

// Snapshot copies the current state into a GameState. The result shares
// nothing with the world and may be read from any goroutine.
func (w *World) Snapshot() *gamestate.GameState {
	players := make([]gamestate.Player, 0, len(w.roster))
	for _, e := range w.roster {
		id, phys, status := w.cars.Get(e)
		players = append(players, gamestate.Player{
			CarID:      id.CarID,
			Team:       id.Team,
			Phys:       phys.State,
			Boost:      status.Boost,
			OnGround:   status.OnGround,
			IsDemoed:   status.IsDemoed,
			HasJumped:  status.HasJumped,
			HasFlip:    status.HasFlip,
			HasJump:    status.HasJump,
			PrevAction: status.PrevAction,
		})
	}
	return gamestate.NewGameState(w.ball, players, w.pads, w.timers)
}
