// Package obs assembles the flat observation vector fed to the policy.
package obs

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/physics"
)

// SchemaVersion identifies the observation layout. Bump it whenever the
// segment order, a segment length or a normalization constant changes.
const SchemaVersion = 1

// Segment lengths.
const (
	BallLen        = 9  // pos, vel, ang vel
	PlayerBlockLen = 29 // 8 vectors + 5 scalars
	globalLen      = BallLen + gamestate.ActionLen + gamestate.BoostPadCount
)

// Variant selects one of the supported observation schemas.
type Variant string

const (
	// VariantAdvanced appends every other player, so the length grows with the roster.
	VariantAdvanced Variant = "advanced"
	// VariantPadded reserves a fixed number of teammate and opponent slots,
	// dropping extra players and zero-filling missing ones.
	VariantPadded Variant = "padded"
)

// Options configures a Builder.
type Options struct {
	Variant      Variant
	MaxTeammates int // padded only
	MaxOpponents int // padded only
}

// Builder produces observations for one schema. It holds no per-call state
// and is safe for concurrent use.
type Builder struct {
	opts Options
}

// NewBuilder validates opts and returns a Builder.
func NewBuilder(opts Options) (*Builder, error) {
	switch opts.Variant {
	case "":
		opts.Variant = VariantAdvanced
	case VariantAdvanced:
	case VariantPadded:
		if opts.MaxTeammates < 0 || opts.MaxOpponents < 0 {
			return nil, fmt.Errorf("padded observation: negative slot count (teammates=%d, opponents=%d)",
				opts.MaxTeammates, opts.MaxOpponents)
		}
	default:
		return nil, fmt.Errorf("unknown observation variant %q", opts.Variant)
	}
	return &Builder{opts: opts}, nil
}

// Variant returns the schema this builder produces.
func (b *Builder) Variant() Variant {
	return b.opts.Variant
}

// Size returns the observation length for a roster of rosterSize players,
// acting player included.
func (b *Builder) Size(rosterSize int) int {
	if b.opts.Variant == VariantPadded {
		return globalLen + PlayerBlockLen*(1+b.opts.MaxTeammates+b.opts.MaxOpponents)
	}
	return ObsSize(rosterSize)
}

// Build returns the observation of player for state.
func (b *Builder) Build(player *gamestate.Player, state *gamestate.GameState) []float32 {
	if b.opts.Variant == VariantPadded {
		return b.buildPadded(player, state)
	}
	return BuildObs(player, state)
}

// ObsSize returns the advanced observation length for a roster of
// rosterSize players, acting player included.
func ObsSize(rosterSize int) int {
	return globalLen + PlayerBlockLen*rosterSize
}

// BuildObs assembles the advanced observation of player for state.
//
// Layout:
//
//	ball (9) | previous action (8) | boost pads (34) | self (29) |
//	teammates (29 each, roster order) | opponents (29 each, roster order)
//
// Everything is expressed from the acting team's side: orange players see
// a mirrored field. The acting player is matched by CarID and excluded from
// the teammate and opponent groups.
func BuildObs(player *gamestate.Player, state *gamestate.GameState) []float32 {
	obs := make([]float32, 0, ObsSize(len(state.Players)))
	obs, inv, ball := appendGlobal(obs, player, state)
	obs = AddPlayerToObs(obs, player, inv, ball)

	others := PlayerBlockLen * len(state.Players)
	teammates := make([]float32, 0, others)
	opponents := make([]float32, 0, others)
	for i := range state.Players {
		other := &state.Players[i]
		if other.CarID == player.CarID {
			continue
		}
		if other.Team == player.Team {
			teammates = AddPlayerToObs(teammates, other, inv, ball)
		} else {
			opponents = AddPlayerToObs(opponents, other, inv, ball)
		}
	}

	obs = append(obs, teammates...)
	return append(obs, opponents...)
}

func (b *Builder) buildPadded(player *gamestate.Player, state *gamestate.GameState) []float32 {
	obs := make([]float32, 0, b.Size(len(state.Players)))
	obs, inv, ball := appendGlobal(obs, player, state)
	obs = AddPlayerToObs(obs, player, inv, ball)

	teammates := make([]float32, 0, PlayerBlockLen*b.opts.MaxTeammates)
	opponents := make([]float32, 0, PlayerBlockLen*b.opts.MaxOpponents)
	var numMates, numOpps int
	for i := range state.Players {
		other := &state.Players[i]
		if other.CarID == player.CarID {
			continue
		}
		if other.Team == player.Team {
			if numMates < b.opts.MaxTeammates {
				teammates = AddPlayerToObs(teammates, other, inv, ball)
				numMates++
			}
		} else if numOpps < b.opts.MaxOpponents {
			opponents = AddPlayerToObs(opponents, other, inv, ball)
			numOpps++
		}
	}

	obs = append(obs, teammates...)
	obs = appendZeros(obs, PlayerBlockLen*(b.opts.MaxTeammates-numMates))
	obs = append(obs, opponents...)
	return appendZeros(obs, PlayerBlockLen*(b.opts.MaxOpponents-numOpps))
}

// appendGlobal appends the ball, previous action and boost pad segments and
// returns the perspective flag and the mirrored ball.
func appendGlobal(obs []float32, player *gamestate.Player, state *gamestate.GameState) ([]float32, bool, physics.PhysState) {
	inv := player.Team == gamestate.TeamOrange
	ball := physics.InvertPhys(state.Ball, inv)

	obs = physics.AppendVec(obs, ball.Pos, physics.PosCoef)
	obs = physics.AppendVec(obs, ball.Vel, physics.VelCoef)
	obs = physics.AppendVec(obs, ball.AngVel, physics.AngVelCoef)

	obs = append(obs, player.PrevAction[:]...)

	pads := state.GetBoostPads(inv)
	timers := state.GetBoostPadTimers(inv)
	for i := range pads {
		obs = append(obs, PadFeature(pads[i], timers[i]))
	}

	return obs, inv, ball
}

// AddPlayerToObs appends the 29-value block describing player, with the
// ball expressed in the player's local frame. ball must already be mirrored
// for the same perspective as inv.
func AddPlayerToObs(obs []float32, player *gamestate.Player, inv bool, ball physics.PhysState) []float32 {
	phys := physics.InvertPhys(player.Phys, inv)
	rot := phys.RotMat

	obs = physics.AppendVec(obs, phys.Pos, physics.PosCoef)
	obs = physics.AppendVec(obs, rot.Forward, 1)
	obs = physics.AppendVec(obs, rot.Up, 1)
	obs = physics.AppendVec(obs, phys.Vel, physics.VelCoef)
	obs = physics.AppendVec(obs, phys.AngVel, physics.AngVelCoef)
	obs = physics.AppendVec(obs, rot.Dot(phys.AngVel), physics.AngVelCoef)

	obs = physics.AppendVec(obs, rot.Dot(r3.Sub(ball.Pos, phys.Pos)), physics.PosCoef)
	obs = physics.AppendVec(obs, rot.Dot(r3.Sub(ball.Vel, phys.Vel)), physics.VelCoef)

	obs = append(obs, player.Boost/100)
	obs = physics.AppendBool(obs, player.OnGround)
	obs = physics.AppendBool(obs, player.HasFlipOrJump())
	obs = physics.AppendBool(obs, player.IsDemoed)
	// Jumped while airborne with the flip unused is how flip resets show up.
	return physics.AppendBool(obs, player.HasJumped)
}

// PadFeature blends pad availability with its respawn timer: 1 when the pad
// is up, otherwise 1/(1+timer), which rises toward 1 as the pad respawns.
func PadFeature(available bool, timer float32) float32 {
	if available {
		return 1
	}
	return 1 / (1 + timer)
}

func appendZeros(obs []float32, n int) []float32 {
	for i := 0; i < n; i++ {
		obs = append(obs, 0)
	}
	return obs
}
