// Package telemetry provides run output, performance timing and feature statistics
// for observation runs.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/advobs/config"
	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/obs"
)

// ObservationRecord is one value of one observation in long format.
type ObservationRecord struct {
	Tick    int64   `csv:"tick"`
	CarID   uint32  `csv:"car_id"`
	Team    string  `csv:"team"`
	Index   int     `csv:"index"`
	Feature string  `csv:"feature"`
	Value   float32 `csv:"value"`
}

// SchemaRecord is the CSV form of an obs.IODescriptor for one team's view.
type SchemaRecord struct {
	Team     string  `csv:"team"`
	Index    int     `csv:"index"`
	ID       string  `csv:"id"`
	Label    string  `csv:"label"`
	Group    string  `csv:"group"`
	Min      float32 `csv:"min"`
	Max      float32 `csv:"max"`
	Centered bool    `csv:"centered"`
}

// Schemas maps each team to the descriptors of its players' observations.
// All players of a team share one layout.
type Schemas map[gamestate.Team][]obs.IODescriptor

var teams = [...]gamestate.Team{gamestate.TeamBlue, gamestate.TeamOrange}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir      string
	obsFile  *os.File
	perfFile *os.File

	// Track if headers have been written
	obsHeaderWritten  bool
	perfHeaderWritten bool

	records []ObservationRecord // reused between WriteObservations calls
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled). All methods are no-ops on nil.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "observations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating observations.csv: %w", err)
	}
	om.obsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.obsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSchema writes one row per team and observation index to schema.csv.
func (om *OutputManager) WriteSchema(schemas Schemas) error {
	if om == nil {
		return nil
	}

	var records []SchemaRecord
	for _, team := range teams {
		for _, d := range schemas[team] {
			records = append(records, SchemaRecord{
				Team:     team.String(),
				Index:    d.Index,
				ID:       d.ID,
				Label:    d.Label,
				Group:    d.Group,
				Min:      d.Min,
				Max:      d.Max,
				Centered: d.IsCentered,
			})
		}
	}
	return writeCSVFile(filepath.Join(om.dir, "schema.csv"), records)
}

// WriteObservations appends the observations built for players at tick.
// vecs[i] belongs to players[i]. Indices missing from the player's team
// schema are written with an empty feature name.
func (om *OutputManager) WriteObservations(tick int64, players []gamestate.Player, vecs [][]float32, schemas Schemas) error {
	if om == nil {
		return nil
	}
	if len(players) != len(vecs) {
		return fmt.Errorf("writing observations: %d players but %d vectors", len(players), len(vecs))
	}

	om.records = om.records[:0]
	for i, vec := range vecs {
		p := &players[i]
		team := p.Team.String()
		descs := schemas[p.Team]
		for j, v := range vec {
			var feature string
			if j < len(descs) {
				feature = descs[j].ID
			}
			om.records = append(om.records, ObservationRecord{
				Tick:    tick,
				CarID:   p.CarID,
				Team:    team,
				Index:   j,
				Feature: feature,
				Value:   v,
			})
		}
	}
	if len(om.records) == 0 {
		return nil
	}

	if !om.obsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(om.records, om.obsFile); err != nil {
			return fmt.Errorf("writing observations: %w", err)
		}
		om.obsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(om.records, om.obsFile); err != nil {
			return fmt.Errorf("writing observations: %w", err)
		}
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, tick int64) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(tick)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}
	return nil
}

// WriteFeatureStats writes the per-index summaries to feature_stats.csv.
func (om *OutputManager) WriteFeatureStats(summaries []FeatureSummary) error {
	if om == nil {
		return nil
	}
	return writeCSVFile(filepath.Join(om.dir, "feature_stats.csv"), summaries)
}

func writeCSVFile(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.obsFile != nil {
		if err := om.obsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
