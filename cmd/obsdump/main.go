// Package main prints labelled observation vectors for a scenario, one row per
// index, for eyeballing normalization and perspective.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/advobs/config"
	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/match"
	"github.com/pthm-cable/advobs/obs"
	"github.com/pthm-cable/advobs/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Scenario YAML (empty = use config, then built-in kickoff)")
	carID := flag.Int64("car", -1, "Car ID to dump (-1 = every car)")
	steps := flag.Int("steps", 0, "Steps to simulate before dumping")
	format := flag.String("format", "table", "Output format: table | csv")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if *scenarioPath != "" {
		cfg.Match.Scenario = *scenarioPath
	}

	sc, err := match.LoadScenario(cfg.Match.Scenario)
	if err != nil {
		log.Fatalf("failed to load scenario: %v", err)
	}
	world, err := match.NewWorldFromScenario(sc)
	if err != nil {
		log.Fatalf("failed to build world: %v", err)
	}
	builder, err := obs.NewBuilder(obs.Options{
		Variant:      obs.Variant(cfg.Obs.Variant),
		MaxTeammates: cfg.Obs.MaxTeammates,
		MaxOpponents: cfg.Obs.MaxOpponents,
	})
	if err != nil {
		log.Fatalf("invalid obs config: %v", err)
	}

	for i := 0; i < *steps; i++ {
		world.Step(cfg.Derived.DT)
	}
	state := world.Snapshot()

	players := selectCars(state.Players, *carID)
	if len(players) == 0 {
		log.Fatalf("car %d not in scenario %q", *carID, sc.Name)
	}

	var records []telemetry.ObservationRecord
	for _, p := range players {
		descs := obs.Describe(builder.LayoutFor(p, state))
		for j, v := range builder.Build(p, state) {
			records = append(records, telemetry.ObservationRecord{
				Tick:    world.Tick(),
				CarID:   p.CarID,
				Team:    p.Team.String(),
				Index:   j,
				Feature: descs[j].ID,
				Value:   v,
			})
		}
	}

	switch *format {
	case "csv":
		if err := gocsv.Marshal(records, os.Stdout); err != nil {
			log.Fatalf("writing csv: %v", err)
		}
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "car\tteam\tindex\tfeature\tvalue")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.5f\n", r.CarID, r.Team, r.Index, r.Feature, r.Value)
		}
		w.Flush()
	default:
		log.Fatalf("unknown format %q", *format)
	}
}

// selectCars returns the roster entries to dump: every car when carID is
// negative, otherwise the car with that ID.
func selectCars(players []gamestate.Player, carID int64) []*gamestate.Player {
	var out []*gamestate.Player
	for i := range players {
		if carID >= 0 && int64(players[i].CarID) != carID {
			continue
		}
		out = append(out, &players[i])
	}
	return out
}
