// Package survey builds batches of random creatures in parallel and measures
// their body plans.
package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"

	"github.com/pthm-cable/morphogen/creature"
	"github.com/pthm-cable/morphogen/genome"
	"github.com/pthm-cable/morphogen/telemetry"
)

// ErrOptions is returned for unusable survey options.
var ErrOptions = errors.New("invalid survey options")

// Options configures a survey run.
type Options struct {
	Spec      *genome.Spec
	Count     int   // creatures to build
	GeneCount int   // genes per random genome
	Workers   int   // goroutines; < 1 means GOMAXPROCS
	Seed      int64 // creature i draws from Seed+i

	Mutate bool // apply Rates once before measuring
	Rates  genome.MutationRates
}

// Result holds the measured creatures in index order.
type Result struct {
	Bodies []telemetry.BodyStats
	Perf   telemetry.PerfStats
}

// workChunk is a range of creature indices for one worker.
type workChunk struct {
	start, end int
}

// Run builds opts.Count creatures. Each creature has its own random source,
// so the result does not depend on the number of workers.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Spec == nil || opts.Count < 0 || opts.GeneCount < 1 {
		return nil, fmt.Errorf("survey: %w: count=%d genes=%d", ErrOptions, opts.Count, opts.GeneCount)
	}

	numWorkers := opts.Workers
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	numWorkers = max(1, min(numWorkers, opts.Count))

	bodies := make([]telemetry.BodyStats, opts.Count)
	samples := make([]telemetry.PerfSample, opts.Count)
	errs := make([]error, opts.Count)

	// Workers write disjoint index ranges, so the slices need no locking.
	workChan := make(chan workChunk, numWorkers)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range workChan {
				for i := chunk.start; i < chunk.end; i++ {
					if err := ctx.Err(); err != nil {
						errs[i] = err
						continue
					}
					bodies[i], samples[i], errs[i] = build(opts, i)
				}
			}
		}()
	}

	size := chunkSize(opts.Count, numWorkers)
feed:
	for start := 0; start < opts.Count; start += size {
		select {
		case <-ctx.Done():
			break feed
		case workChan <- workChunk{start: start, end: min(start+size, opts.Count)}:
		}
	}
	close(workChan)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("survey: %w", err)
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("survey: creature %d: %w", i, err)
		}
	}

	perf := telemetry.NewPerfCollector(opts.Count)
	for _, s := range samples {
		perf.Record(s)
	}
	return &Result{Bodies: bodies, Perf: perf.Stats()}, nil
}

// chunkSize splits count into roughly four chunks per worker.
func chunkSize(count, workers int) int {
	return max(1, count/(workers*4))
}

func build(opts Options, i int) (telemetry.BodyStats, telemetry.PerfSample, error) {
	rng := rand.New(rand.NewSource(opts.Seed + int64(i)))
	timer := telemetry.StartTimer()

	timer.Phase(telemetry.PhaseGenerate)
	c, err := creature.New(rng, opts.Spec, opts.GeneCount)
	if err != nil {
		return telemetry.BodyStats{}, telemetry.PerfSample{}, err
	}

	if opts.Mutate {
		timer.Phase(telemetry.PhaseMutate)
		g := genome.NewOperators(rng).Mutate(c.Genome(), opts.Rates)
		if err := c.SetGenome(g); err != nil {
			return telemetry.BodyStats{}, telemetry.PerfSample{}, err
		}
	}

	timer.Phase(telemetry.PhaseBuild)
	if _, err := c.Motors(); err != nil {
		return telemetry.BodyStats{}, telemetry.PerfSample{}, err
	}

	timer.Phase(telemetry.PhaseMeasure)
	stats, err := telemetry.ComputeBodyStats(c)
	if err != nil {
		return telemetry.BodyStats{}, telemetry.PerfSample{}, err
	}
	stats.Index = i

	slog.Debug("creature built", "index", i, "body", stats)
	return stats, timer.Stop(), nil
}
