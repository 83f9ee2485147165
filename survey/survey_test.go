package survey

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/pthm-cable/morphogen/genome"
)

func options(count, workers int) Options {
	return Options{
		Spec:      genome.DefaultSpec(),
		Count:     count,
		GeneCount: 4,
		Workers:   workers,
		Seed:      42,
	}
}

func TestRunIndependentOfWorkers(t *testing.T) {
	serial, err := Run(context.Background(), options(40, 1))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	parallel, err := Run(context.Background(), options(40, 6))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(serial.Bodies) != 40 {
		t.Fatalf("expected 40 bodies, got %d", len(serial.Bodies))
	}
	if !reflect.DeepEqual(serial.Bodies, parallel.Bodies) {
		t.Error("results differ between 1 and 6 workers")
	}
	for i, b := range parallel.Bodies {
		if b.Index != i {
			t.Fatalf("body %d has index %d", i, b.Index)
		}
		if b.Genes != 4 || b.Links < 1 {
			t.Errorf("body %d: unexpected stats %+v", i, b)
		}
	}
	if parallel.Perf.AvgDuration <= 0 {
		t.Error("expected timing samples")
	}
}

func TestRunSeedChangesResult(t *testing.T) {
	a, err := Run(context.Background(), options(20, 2))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	opts := options(20, 2)
	opts.Seed = 7
	b, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if reflect.DeepEqual(a.Bodies, b.Bodies) {
		t.Error("different seeds produced identical surveys")
	}
}

func TestRunMutate(t *testing.T) {
	opts := options(30, 3)
	opts.Mutate = true
	opts.Rates = genome.MutationRates{PointRate: 1, PointAmount: 0.5, ShrinkRate: 1, GrowRate: 0}

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, b := range res.Bodies {
		// Shrink at rate 1 always drops one gene from four.
		if b.Genes != 3 {
			t.Errorf("body %d: expected 3 genes after shrink, got %d", i, b.Genes)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	res, err := Run(context.Background(), options(0, 4))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Bodies) != 0 {
		t.Errorf("expected no bodies, got %d", len(res.Bodies))
	}
}

func TestRunInvalidOptions(t *testing.T) {
	bad := []Options{
		{Count: 1, GeneCount: 1},
		{Spec: genome.DefaultSpec(), Count: -1, GeneCount: 1},
		{Spec: genome.DefaultSpec(), Count: 1, GeneCount: 0},
	}
	for i, opts := range bad {
		if _, err := Run(context.Background(), opts); !errors.Is(err, ErrOptions) {
			t.Errorf("case %d: expected ErrOptions, got %v", i, err)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, options(100, 2)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
