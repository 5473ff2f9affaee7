package obs

import (
	"fmt"

	"github.com/pthm-cable/advobs/gamestate"
)

// Segment is a contiguous range of an observation.
type Segment struct {
	Offset int
	Len    int
}

// End returns the index one past the segment.
func (s Segment) End() int {
	return s.Offset + s.Len
}

// Layout gives the position of every segment in one observation.
type Layout struct {
	Ball      Segment
	Action    Segment
	Pads      Segment
	Self      Segment
	Teammates Segment
	Opponents Segment
	Total     int
}

// Layout returns segment positions for an observation with the given number
// of teammate and opponent blocks. The padded variant ignores the counts.
func (b *Builder) Layout(numTeammates, numOpponents int) Layout {
	if b.opts.Variant == VariantPadded {
		numTeammates, numOpponents = b.opts.MaxTeammates, b.opts.MaxOpponents
	}

	var l Layout
	off := 0
	next := func(n int) Segment {
		s := Segment{Offset: off, Len: n}
		off += n
		return s
	}
	l.Ball = next(BallLen)
	l.Action = next(gamestate.ActionLen)
	l.Pads = next(gamestate.BoostPadCount)
	l.Self = next(PlayerBlockLen)
	l.Teammates = next(PlayerBlockLen * numTeammates)
	l.Opponents = next(PlayerBlockLen * numOpponents)
	l.Total = off
	return l
}

// LayoutFor returns the layout of player's observation of state.
func (b *Builder) LayoutFor(player *gamestate.Player, state *gamestate.GameState) Layout {
	mates, opps := CountOthers(player, state)
	return b.Layout(mates, opps)
}

// CountOthers partitions the roster around player, returning how many
// teammates and opponents it has. player itself is not counted.
func CountOthers(player *gamestate.Player, state *gamestate.GameState) (teammates, opponents int) {
	for i := range state.Players {
		other := &state.Players[i]
		if other.CarID == player.CarID {
			continue
		}
		if other.Team == player.Team {
			teammates++
		} else {
			opponents++
		}
	}
	return teammates, opponents
}

// IODescriptor describes one observation index for schema dumps and tooling.
type IODescriptor struct {
	Index      int
	ID         string  // Unique identifier, e.g. "mate0_local_ball_pos_x"
	Label      string  // Display name
	Group      string  // Segment: ball, action, pads, self, mate<N>, opp<N>
	Min        float32 // Expected lower bound (soft for unbounded values)
	Max        float32 // Expected upper bound (soft for unbounded values)
	IsCentered bool    // True for values centered on 0
}

var actionNames = [gamestate.ActionLen]string{
	"throttle", "steer", "pitch", "yaw", "roll", "jump", "boost", "handbrake",
}

var axes = [3]string{"x", "y", "z"}

// playerFields lists the 29 per-player values in append order.
var playerFields = []struct {
	name   string
	vector bool
}{
	{"pos", true},
	{"forward", true},
	{"up", true},
	{"vel", true},
	{"ang_vel", true},
	{"local_ang_vel", true},
	{"local_ball_pos", true},
	{"local_ball_vel", true},
	{"boost", false},
	{"on_ground", false},
	{"has_flip_or_jump", false},
	{"is_demoed", false},
	{"has_jumped", false},
}

// Describe returns one descriptor per index of an observation with layout l.
func Describe(l Layout) []IODescriptor {
	out := make([]IODescriptor, 0, l.Total)
	add := func(group, id, label string, min, max float32, centered bool) {
		out = append(out, IODescriptor{
			Index:      len(out),
			ID:         id,
			Label:      label,
			Group:      group,
			Min:        min,
			Max:        max,
			IsCentered: centered,
		})
	}

	for _, f := range []string{"pos", "vel", "ang_vel"} {
		for _, a := range axes {
			add("ball", "ball_"+f+"_"+a, "Ball "+f+" "+a, -1, 1, true)
		}
	}
	for _, name := range actionNames {
		add("action", "prev_"+name, "Prev "+name, -1, 1, true)
	}
	for i := 0; i < gamestate.BoostPadCount; i++ {
		add("pads", fmt.Sprintf("pad%d", i), fmt.Sprintf("Pad %d", i), 0, 1, false)
	}

	addPlayer := func(prefix string) {
		for _, f := range playerFields {
			if !f.vector {
				add(prefix, prefix+"_"+f.name, prefix+" "+f.name, 0, 1, false)
				continue
			}
			for _, a := range axes {
				add(prefix, prefix+"_"+f.name+"_"+a, prefix+" "+f.name+" "+a, -1, 1, true)
			}
		}
	}
	addPlayer("self")
	for i := 0; i < l.Teammates.Len/PlayerBlockLen; i++ {
		addPlayer(fmt.Sprintf("mate%d", i))
	}
	for i := 0; i < l.Opponents.Len/PlayerBlockLen; i++ {
		addPlayer(fmt.Sprintf("opp%d", i))
	}
	return out
}
