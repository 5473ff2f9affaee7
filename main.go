package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/advobs/config"
	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/match"
	"github.com/pthm-cable/advobs/obs"
	"github.com/pthm-cable/advobs/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Scenario YAML (empty = use config, then built-in kickoff)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	ticks := flag.Int("ticks", -1, "Observation ticks to build (-1 = use config)")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Derived.LogLevel}))
	slog.SetDefault(logger)

	if *scenarioPath != "" {
		cfg.Match.Scenario = *scenarioPath
	}
	if *ticks >= 0 {
		cfg.Match.Ticks = *ticks
	}

	if err := run(cfg, *outputDir, *logStats); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, outputDir string, logStats bool) error {
	sc, err := match.LoadScenario(cfg.Match.Scenario)
	if err != nil {
		return err
	}
	world, err := match.NewWorldFromScenario(sc)
	if err != nil {
		return err
	}
	builder, err := obs.NewBuilder(obs.Options{
		Variant:      obs.Variant(cfg.Obs.Variant),
		MaxTeammates: cfg.Obs.MaxTeammates,
		MaxOpponents: cfg.Obs.MaxOpponents,
	})
	if err != nil {
		return err
	}

	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	slog.Info("starting observation run",
		"scenario", sc.Name,
		"cars", world.NumCars(),
		"variant", builder.Variant(),
		"schema_version", obs.SchemaVersion,
		"ticks", cfg.Match.Ticks,
		"dt", cfg.Derived.DT,
		"output_dir", out.Dir(),
	)

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	stats := telemetry.TeamFeatureStats{}
	var schemas telemetry.Schemas

	for tick := 0; tick < cfg.Match.Ticks; tick++ {
		perf.StartTick()

		// The first observation is of the initial state.
		perf.StartPhase(telemetry.PhaseStep)
		if tick > 0 {
			world.Step(cfg.Derived.DT)
		}

		perf.StartPhase(telemetry.PhaseSnapshot)
		state := world.Snapshot()

		perf.StartPhase(telemetry.PhaseBuildObs)
		vecs := builder.BuildAll(state)
		perf.AddObservations(len(vecs))

		perf.StartPhase(telemetry.PhaseWrite)
		if schemas == nil {
			// The roster is fixed for the run, so layouts are too.
			schemas = schemasFor(builder, state)
			if err := out.WriteSchema(schemas); err != nil {
				return err
			}
		}
		for i, vec := range vecs {
			stats.Add(state.Players[i].Team, vec)
		}
		if err := out.WriteObservations(int64(tick), state.Players, vecs, schemas); err != nil {
			return err
		}

		perf.EndTick()

		if every := cfg.Telemetry.LogEvery; every > 0 && (tick+1)%every == 0 {
			ps := perf.Stats()
			if logStats {
				ps.LogStats()
			}
			if err := out.WritePerf(ps, int64(tick)); err != nil {
				return err
			}
		}
	}

	summaries := stats.Summarize(schemas)
	if err := out.WriteFeatureStats(summaries); err != nil {
		return err
	}
	for _, s := range summaries {
		if s.OutOfRange > 0 {
			slog.Debug("feature outside expected range", "summary", s)
		}
	}

	slog.Info("observation run complete",
		"ticks", cfg.Match.Ticks,
		"perf", perf.Stats(),
	)
	return nil
}

// schemasFor describes the observation layout seen by each team in state.
func schemasFor(b *obs.Builder, state *gamestate.GameState) telemetry.Schemas {
	schemas := telemetry.Schemas{}
	for i := range state.Players {
		p := &state.Players[i]
		if _, ok := schemas[p.Team]; ok {
			continue
		}
		schemas[p.Team] = obs.Describe(b.LayoutFor(p, state))
	}
	return schemas
}
