package match

import (
	_ "embed"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/physics"
)

//go:embed kickoff.yaml
var kickoffYAML []byte

// Scenario describes a match starting position.
type Scenario struct {
	Name string    `yaml:"name"`
	Ball BodySpec  `yaml:"ball"`
	Cars []CarSpec `yaml:"cars"`
	// Pads lists unavailable pads by index with their remaining respawn time.
	Pads map[int]float32 `yaml:"pads"`
}

// BodySpec is a physical state in game units. Rot is pitch, yaw, roll in radians.
type BodySpec struct {
	Pos    [3]float64 `yaml:"pos"`
	Vel    [3]float64 `yaml:"vel"`
	AngVel [3]float64 `yaml:"ang_vel"`
	Rot    [3]float64 `yaml:"rot"`
}

// CarSpec describes one car.
type CarSpec struct {
	CarID      uint32    `yaml:"car_id"`
	Team       string    `yaml:"team"`
	Body       BodySpec  `yaml:",inline"`
	Boost      float32   `yaml:"boost"`
	OnGround   bool      `yaml:"on_ground"`
	IsDemoed   bool      `yaml:"is_demoed"`
	HasJumped  bool      `yaml:"has_jumped"`
	HasFlip    bool      `yaml:"has_flip"`
	HasJump    bool      `yaml:"has_jump"`
	PrevAction []float32 `yaml:"prev_action"`
}

// PhysState converts b to a PhysState.
func (b BodySpec) PhysState() physics.PhysState {
	return physics.PhysState{
		Pos:    vec(b.Pos),
		Vel:    vec(b.Vel),
		AngVel: vec(b.AngVel),
		RotMat: physics.RotMatFromEuler(b.Rot[0], b.Rot[1], b.Rot[2]),
	}
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// DefaultScenario returns the embedded 2v2 kickoff.
func DefaultScenario() (*Scenario, error) {
	return ParseScenario(kickoffYAML)
}

// LoadScenario reads a scenario from a YAML file. An empty path returns the
// default kickoff.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return DefaultScenario()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(sc.Cars) == 0 {
		return nil, fmt.Errorf("scenario %q has no cars", sc.Name)
	}
	for i, c := range sc.Cars {
		if _, err := gamestate.ParseTeam(c.Team); err != nil {
			return nil, fmt.Errorf("car %d: %w", i, err)
		}
		if len(c.PrevAction) > gamestate.ActionLen {
			return nil, fmt.Errorf("car %d: prev_action has %d values, max %d", i, len(c.PrevAction), gamestate.ActionLen)
		}
		if c.Boost < 0 || c.Boost > MaxBoost {
			return nil, fmt.Errorf("car %d: boost %v outside [0, %v]", i, c.Boost, MaxBoost)
		}
	}
	for idx, timer := range sc.Pads {
		if idx < 0 || idx >= gamestate.BoostPadCount {
			return nil, fmt.Errorf("pad index %d out of range", idx)
		}
		if timer < 0 {
			return nil, fmt.Errorf("pad %d: negative timer %v", idx, timer)
		}
	}
	return sc, nil
}

// NewWorldFromScenario builds a World holding the scenario's cars in listed order.
func NewWorldFromScenario(sc *Scenario) (*World, error) {
	w := NewWorld()
	w.SetBall(sc.Ball.PhysState())

	for _, c := range sc.Cars {
		team, err := gamestate.ParseTeam(c.Team)
		if err != nil {
			return nil, err
		}
		var action gamestate.Action
		copy(action[:], c.PrevAction)

		status := Status{
			Boost:      c.Boost,
			OnGround:   c.OnGround,
			IsDemoed:   c.IsDemoed,
			HasJumped:  c.HasJumped,
			HasFlip:    c.HasFlip,
			HasJump:    c.HasJump,
			PrevAction: action,
		}
		if err := w.Spawn(Identity{CarID: c.CarID, Team: team}, c.Body.PhysState(), status); err != nil {
			return nil, err
		}
	}

	for idx, timer := range sc.Pads {
		if err := w.SetPad(idx, false, timer); err != nil {
			return nil, err
		}
	}
	return w, nil
}
