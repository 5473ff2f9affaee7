package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/advobs/config"
	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/obs"
)

func TestNilOutputManagerIsNoop(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	if err := om.WriteObservations(1, nil, nil, nil); err != nil {
		t.Error(err)
	}
	if err := om.WriteSchema(nil); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have no dir")
	}
}

func TestWriteObservationsLongFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	players := []gamestate.Player{
		{CarID: 1, Team: gamestate.TeamBlue},
		{CarID: 2, Team: gamestate.TeamOrange},
	}
	schemas := Schemas{
		gamestate.TeamBlue:   {{Index: 0, ID: "first"}, {Index: 1, ID: "second"}},
		gamestate.TeamOrange: {{Index: 0, ID: "uno"}, {Index: 1, ID: "dos"}},
	}
	vecs := [][]float32{{0.5, -1}, {0.25, 1}}

	if err := om.WriteObservations(0, players, vecs, schemas); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteObservations(1, players, vecs, schemas); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteObservations(2, players, vecs[:1], schemas); err == nil {
		t.Error("expected mismatched players/vectors to fail")
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	var rows []*ObservationRecord
	f, err := os.Open(filepath.Join(dir, "observations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading observations.csv: %v", err)
	}

	// Two ticks, two players, two values each; the header is written once.
	if len(rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(rows))
	}
	r := rows[3]
	if r.Tick != 0 || r.CarID != 2 || r.Team != "orange" || r.Index != 1 || r.Feature != "dos" || r.Value != 1 {
		t.Errorf("unexpected row: %+v", r)
	}
	if rows[4].Tick != 1 {
		t.Errorf("expected second tick to follow, got %+v", rows[4])
	}
}

func TestWriteSchemaConfigAndStats(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	b, err := obs.NewBuilder(obs.Options{})
	if err != nil {
		t.Fatal(err)
	}
	// 1v2: blue sees no teammate, orange sees one of each.
	schemas := Schemas{
		gamestate.TeamBlue:   obs.Describe(b.Layout(0, 2)),
		gamestate.TeamOrange: obs.Describe(b.Layout(1, 1)),
	}
	if err := om.WriteSchema(schemas); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}

	ts := TeamFeatureStats{}
	ts.Add(gamestate.TeamOrange, make([]float32, obs.ObsSize(3)))
	summaries := ts.Summarize(schemas)
	if len(summaries) != obs.ObsSize(3) || summaries[0].Team != "orange" {
		t.Errorf("unexpected summaries: %d rows", len(summaries))
	}
	if err := om.WriteFeatureStats(summaries); err != nil {
		t.Fatal(err)
	}

	var schema []*SchemaRecord
	f, err := os.Open(filepath.Join(dir, "schema.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, &schema); err != nil {
		t.Fatal(err)
	}
	if len(schema) != 2*obs.ObsSize(3) {
		t.Fatalf("expected %d schema rows, got %d", 2*obs.ObsSize(3), len(schema))
	}
	if schema[0].Team != "blue" || schema[0].ID != "ball_pos_x" {
		t.Errorf("unexpected first schema row: %+v", schema[0])
	}
	// Blue's first block after self is an opponent, orange's a teammate.
	after := obs.ObsSize(1)
	if schema[after].Group != "opp0" {
		t.Errorf("blue row %d: got group %q", after, schema[after].Group)
	}
	if r := schema[obs.ObsSize(3)+after]; r.Team != "orange" || r.Group != "mate0" {
		t.Errorf("orange row %d: %+v", after, r)
	}

	for _, name := range []string{"config.yaml", "feature_stats.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}
