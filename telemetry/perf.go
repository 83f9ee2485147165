package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for building one creature.
const (
	PhaseGenerate = "generate"
	PhaseMutate   = "mutate"
	PhaseBuild    = "build"
	PhaseMeasure  = "measure"
)

var phases = []string{PhaseGenerate, PhaseMutate, PhaseBuild, PhaseMeasure}

// PerfSample holds timing data for a single creature.
type PerfSample struct {
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PhaseTimer times the phases of one creature. Each worker owns its own.
type PhaseTimer struct {
	start      time.Time
	phaseStart time.Time
	lastPhase  string
	phases     map[string]time.Duration
}

// StartTimer begins timing a new creature.
func StartTimer() *PhaseTimer {
	now := time.Now()
	return &PhaseTimer{start: now, phaseStart: now, phases: make(map[string]time.Duration)}
}

// Phase ends the previous phase, if any, and starts timing phase.
func (t *PhaseTimer) Phase(phase string) {
	now := time.Now()
	if t.lastPhase != "" {
		t.phases[t.lastPhase] += now.Sub(t.phaseStart)
	}
	t.phaseStart = now
	t.lastPhase = phase
}

// Stop ends the final phase and returns the sample.
func (t *PhaseTimer) Stop() PerfSample {
	now := time.Now()
	if t.lastPhase != "" {
		t.phases[t.lastPhase] += now.Sub(t.phaseStart)
		t.lastPhase = ""
	}
	return PerfSample{Duration: now.Sub(t.start), Phases: t.phases}
}

// PerfCollector tracks build timings over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of creatures to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// Record adds a sample, evicting the oldest once the window is full.
func (p *PerfCollector) Record(s PerfSample) {
	p.samples[p.writeIndex] = s
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgDuration time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total build time
	PhasePct map[string]float64

	// Throughput of a single worker
	BuildsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, minDur, maxDur time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration

		if i == 0 || s.Duration < minDur {
			minDur = s.Duration
		}
		if s.Duration > maxDur {
			maxDur = s.Duration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgDuration:     avg,
		MinDuration:     minDur,
		MaxDuration:     maxDur,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		BuildsPerSecond: perSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_us", s.AvgDuration.Microseconds(),
		"min_us", s.MinDuration.Microseconds(),
		"max_us", s.MaxDuration.Microseconds(),
		"builds_per_sec", int(s.BuildsPerSecond),
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Creatures    int     `csv:"creatures"`
	AvgUS        int64   `csv:"avg_us"`
	MinUS        int64   `csv:"min_us"`
	MaxUS        int64   `csv:"max_us"`
	BuildsPerSec float64 `csv:"builds_per_sec"`
	GeneratePct  float64 `csv:"generate_pct"`
	MutatePct    float64 `csv:"mutate_pct"`
	BuildPct     float64 `csv:"build_pct"`
	MeasurePct   float64 `csv:"measure_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(creatures int) PerfStatsCSV {
	return PerfStatsCSV{
		Creatures:    creatures,
		AvgUS:        s.AvgDuration.Microseconds(),
		MinUS:        s.MinDuration.Microseconds(),
		MaxUS:        s.MaxDuration.Microseconds(),
		BuildsPerSec: s.BuildsPerSecond,
		GeneratePct:  s.PhasePct[PhaseGenerate],
		MutatePct:    s.PhasePct[PhaseMutate],
		BuildPct:     s.PhasePct[PhaseBuild],
		MeasurePct:   s.PhasePct[PhaseMeasure],
	}
}
