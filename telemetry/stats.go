package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/advobs/gamestate"
	"github.com/pthm-cable/advobs/obs"
)

// FeatureSummary holds the distribution of one observation index over a run.
type FeatureSummary struct {
	Team    string  `csv:"team"`
	Index   int     `csv:"index"`
	Feature string  `csv:"feature"`
	Group   string  `csv:"group"`
	Count   int     `csv:"count"`
	Mean    float64 `csv:"mean"`
	Std     float64 `csv:"std"`
	Min     float64 `csv:"min"`
	P50     float64 `csv:"p50"`
	Max     float64 `csv:"max"`

	// OutOfRange counts samples outside the descriptor's expected bounds.
	OutOfRange int `csv:"out_of_range"`
}

// FeatureStats accumulates per-index samples across observations.
// Observations of different lengths are tracked up to the longest seen;
// shorter vectors simply contribute no samples to the missing indices.
type FeatureStats struct {
	samples [][]float64
	obsSeen int
}

// NewFeatureStats creates an empty accumulator.
func NewFeatureStats() *FeatureStats {
	return &FeatureStats{}
}

// Add records one observation vector.
func (f *FeatureStats) Add(vec []float32) {
	for len(f.samples) < len(vec) {
		f.samples = append(f.samples, nil)
	}
	for i, v := range vec {
		f.samples[i] = append(f.samples[i], float64(v))
	}
	f.obsSeen++
}

// Observations returns how many vectors have been added.
func (f *FeatureStats) Observations() int {
	return f.obsSeen
}

// Summarize computes one summary per index. descs labels the indices; indices
// past the end of descs are reported with an empty feature name.
func (f *FeatureStats) Summarize(descs []obs.IODescriptor) []FeatureSummary {
	out := make([]FeatureSummary, 0, len(f.samples))
	for i, vals := range f.samples {
		s := FeatureSummary{Index: i, Count: len(vals)}
		if i < len(descs) {
			s.Feature = descs[i].ID
			s.Group = descs[i].Group
		}
		if len(vals) > 0 {
			s.Mean, s.Std = meanStd(vals)

			sorted := make([]float64, len(vals))
			copy(sorted, vals)
			sort.Float64s(sorted)
			s.Min = sorted[0]
			s.Max = sorted[len(sorted)-1]
			s.P50 = Percentile(sorted, 0.5)

			if i < len(descs) {
				lo, hi := float64(descs[i].Min), float64(descs[i].Max)
				for _, v := range vals {
					if v < lo || v > hi {
						s.OutOfRange++
					}
				}
			}
		}
		out = append(out, s)
	}
	return out
}

// TeamFeatureStats keeps one accumulator per team, since uneven rosters give
// the two teams different layouts.
type TeamFeatureStats map[gamestate.Team]*FeatureStats

// Add records one observation vector seen by a player of team.
func (t TeamFeatureStats) Add(team gamestate.Team, vec []float32) {
	fs, ok := t[team]
	if !ok {
		fs = NewFeatureStats()
		t[team] = fs
	}
	fs.Add(vec)
}

// Summarize returns blue summaries followed by orange ones, each labelled by
// that team's schema.
func (t TeamFeatureStats) Summarize(schemas Schemas) []FeatureSummary {
	var out []FeatureSummary
	for _, team := range teams {
		fs, ok := t[team]
		if !ok {
			continue
		}
		for _, s := range fs.Summarize(schemas[team]) {
			s.Team = team.String()
			out = append(out, s)
		}
	}
	return out
}

// meanStd wraps stat.MeanStdDev, which is undefined for a single sample.
func meanStd(vals []float64) (mean, std float64) {
	if len(vals) == 1 {
		return vals[0], 0
	}
	mean, std = stat.MeanStdDev(vals, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation between closest ranks
	rank := p * float64(n-1)
	lower := int(math.Floor(rank))
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s FeatureSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("index", s.Index),
		slog.String("feature", s.Feature),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Int("out_of_range", s.OutOfRange),
	)
}
