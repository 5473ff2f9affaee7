package gamestate

import (
	"testing"

	"github.com/pthm-cable/advobs/physics"
)

func TestBoostPadTableIsPointSymmetric(t *testing.T) {
	for i, pad := range BoostPadLocations {
		m := BoostPadLocations[MirrorPadIndex(i)]
		if m.Pos.X != -pad.Pos.X || m.Pos.Y != -pad.Pos.Y || m.Pos.Z != pad.Pos.Z {
			t.Errorf("pad %d at %+v does not mirror pad %d at %+v", i, pad.Pos, MirrorPadIndex(i), m.Pos)
		}
		if m.Big != pad.Big {
			t.Errorf("pad %d size differs from its mirror", i)
		}
	}
}

func TestBoostPadBigCount(t *testing.T) {
	big := 0
	for _, pad := range BoostPadLocations {
		if pad.Big {
			big++
			if pad.RespawnDelay() != BigPadRespawn {
				t.Errorf("big pad respawn: got %v", pad.RespawnDelay())
			}
		} else if pad.RespawnDelay() != SmallPadRespawn {
			t.Errorf("small pad respawn: got %v", pad.RespawnDelay())
		}
	}
	if big != 6 {
		t.Errorf("expected 6 big pads, got %d", big)
	}
}

func TestNewGameStateMirrorsPads(t *testing.T) {
	var pads [BoostPadCount]bool
	var timers [BoostPadCount]float32
	for i := range pads {
		pads[i] = true
	}
	pads[0] = false
	timers[0] = 3.5
	pads[7] = false
	timers[7] = 1.25

	s := NewGameState(physics.PhysState{}, nil, pads, timers)

	if s.BoostPadsInv[BoostPadCount-1] {
		t.Error("pad 0 should appear unavailable at the last mirrored index")
	}
	if s.BoostPadTimersInv[BoostPadCount-1] != 3.5 {
		t.Errorf("mirrored timer: got %v", s.BoostPadTimersInv[BoostPadCount-1])
	}
	if s.BoostPadsInv[MirrorPadIndex(7)] || s.BoostPadTimersInv[MirrorPadIndex(7)] != 1.25 {
		t.Error("pad 7 not mirrored")
	}
	if !s.BoostPadsInv[0] {
		t.Error("mirrored pad 0 should be available")
	}

	if s.GetBoostPads(false) != &s.BoostPads || s.GetBoostPads(true) != &s.BoostPadsInv {
		t.Error("GetBoostPads returned the wrong perspective")
	}
	if s.GetBoostPadTimers(false) != &s.BoostPadTimers || s.GetBoostPadTimers(true) != &s.BoostPadTimersInv {
		t.Error("GetBoostPadTimers returned the wrong perspective")
	}
}

func TestHasFlipOrJump(t *testing.T) {
	tests := []struct {
		flip, jump bool
		want       bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}

	for _, tc := range tests {
		p := Player{HasFlip: tc.flip, HasJump: tc.jump}
		if got := p.HasFlipOrJump(); got != tc.want {
			t.Errorf("flip=%v jump=%v: got %v, want %v", tc.flip, tc.jump, got, tc.want)
		}
	}
}

func TestPlayerByIDAndClone(t *testing.T) {
	s := NewGameState(physics.PhysState{}, []Player{
		{CarID: 3, Team: TeamBlue},
		{CarID: 9, Team: TeamOrange},
	}, [BoostPadCount]bool{}, [BoostPadCount]float32{})

	p, ok := s.PlayerByID(9)
	if !ok || p.Team != TeamOrange {
		t.Fatalf("expected orange car 9, got %+v (ok=%v)", p, ok)
	}
	if _, ok := s.PlayerByID(42); ok {
		t.Error("expected missing car id to be reported")
	}

	c := s.Clone()
	c.Players[0].Boost = 77
	if s.Players[0].Boost != 0 {
		t.Error("clone shares the roster with the original")
	}
}

func TestTeamString(t *testing.T) {
	if TeamBlue.String() != "blue" || TeamOrange.String() != "orange" || Team(5).String() != "unknown" {
		t.Error("unexpected team names")
	}
}

func TestParseTeam(t *testing.T) {
	for in, want := range map[string]Team{"blue": TeamBlue, "0": TeamBlue, "orange": TeamOrange, "1": TeamOrange} {
		got, err := ParseTeam(in)
		if err != nil || got != want {
			t.Errorf("ParseTeam(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseTeam("green"); err == nil {
		t.Error("expected an error for an unknown team")
	}
}
