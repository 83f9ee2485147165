package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/morphogen/creature"
	"github.com/pthm-cable/morphogen/morphology"
	"github.com/pthm-cable/morphogen/motor"
	"github.com/pthm-cable/morphogen/urdf"
)

// BodyStats describes one materialized creature.
type BodyStats struct {
	Index        int     `csv:"index"`
	Genes        int     `csv:"genes"`
	FlatLinks    int     `csv:"flat_links"`
	Links        int     `csv:"links"`
	Depth        int     `csv:"depth"`
	MaxFanOut    int     `csv:"max_fanout"`
	PulseMotors  int     `csv:"pulse_motors"`
	SineMotors   int     `csv:"sine_motors"`
	TotalMass    float64 `csv:"total_mass"`
	Displacement float64 `csv:"displacement"`
}

// ComputeBodyStats materializes c if needed and measures its body plan.
func ComputeBodyStats(c *creature.Creature) (BodyStats, error) {
	flat, err := c.FlatNodes()
	if err != nil {
		return BodyStats{}, err
	}
	expanded, err := c.ExpandedNodes()
	if err != nil {
		return BodyStats{}, err
	}
	motors, err := c.Motors()
	if err != nil {
		return BodyStats{}, err
	}

	s := BodyStats{
		Genes:        len(c.Genome()),
		FlatLinks:    len(flat),
		Links:        len(expanded),
		Depth:        morphology.Depth(expanded),
		MaxFanOut:    morphology.MaxFanOut(expanded),
		Displacement: c.Displacement(),
	}
	for _, n := range expanded {
		s.TotalMass += urdf.LinkMass(n)
	}
	for _, m := range motors {
		switch m.Type() {
		case motor.Pulse:
			s.PulseMotors++
		case motor.Sine:
			s.SineMotors++
		}
	}
	return s, nil
}

// LogValue implements slog.LogValuer for structured logging.
func (s BodyStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("genes", s.Genes),
		slog.Int("flat_links", s.FlatLinks),
		slog.Int("links", s.Links),
		slog.Int("depth", s.Depth),
		slog.Int("max_fanout", s.MaxFanOut),
		slog.Int("pulse_motors", s.PulseMotors),
		slog.Int("sine_motors", s.SineMotors),
		slog.Float64("total_mass", s.TotalMass),
	)
}

// Summary holds the distribution of one metric.
type Summary struct {
	Mean float64
	Std  float64 // population standard deviation
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, spread and empirical percentiles of values.
// Returns the zero Summary if values is empty.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Summary{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
	)
}

// SurveyStats aggregates a batch of creatures.
type SurveyStats struct {
	Count     int
	Links     Summary
	Depth     Summary
	MaxFanOut Summary
	TotalMass Summary
}

// Aggregate summarizes the per-creature stats of a survey.
func Aggregate(bodies []BodyStats) SurveyStats {
	links := make([]float64, len(bodies))
	depth := make([]float64, len(bodies))
	fanout := make([]float64, len(bodies))
	mass := make([]float64, len(bodies))
	for i, b := range bodies {
		links[i] = float64(b.Links)
		depth[i] = float64(b.Depth)
		fanout[i] = float64(b.MaxFanOut)
		mass[i] = b.TotalMass
	}
	return SurveyStats{
		Count:     len(bodies),
		Links:     Summarize(links),
		Depth:     Summarize(depth),
		MaxFanOut: Summarize(fanout),
		TotalMass: Summarize(mass),
	}
}

// LogStats logs the survey aggregate using slog.
func (s SurveyStats) LogStats() {
	slog.Info("survey",
		"count", s.Count,
		"links", s.Links,
		"depth", s.Depth,
		"max_fanout", s.MaxFanOut,
		"total_mass", s.TotalMass,
	)
}
