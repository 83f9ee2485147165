package genome

import (
	"fmt"
	"math/rand"
)

// MaxGeneValue is the largest float64 below 1, 1 - 2^-53.
const MaxGeneValue = 1 - 1.0/(1<<53)

// MutationRates bundles the per-generation mutation parameters.
type MutationRates struct {
	PointRate   float64 // probability per scalar of a point mutation
	PointAmount float64 // magnitude of a point mutation
	ShrinkRate  float64 // probability of removing one gene
	GrowRate    float64 // probability of appending one gene
}

// Operators applies genetic operators with its own random source.
// Not safe for concurrent use; give each goroutine its own Operators.
type Operators struct {
	rng *rand.Rand
}

// NewOperators returns operators drawing from rng.
func NewOperators(rng *rand.Rand) *Operators {
	return &Operators{rng: rng}
}

// Crossover splices g1 and g2 at a single random cut point.
// The child has len(g2) genes: positions before the cut come from g1 and the
// rest from g2. The cut never exceeds the shorter parent, so when g1 is the
// shorter parent the tail is always g2's.
func (o *Operators) Crossover(g1, g2 Genome) (Genome, error) {
	if len(g1) == 0 || len(g2) == 0 {
		return nil, fmt.Errorf("crossover: %w", ErrEmptyGenome)
	}

	shorter := min(len(g1), len(g2))
	cut := o.rng.Intn(shorter + 1)

	child := make(Genome, len(g2))
	for i := range child {
		if i < cut {
			child[i] = g1[i].Clone()
		} else {
			child[i] = g2[i].Clone()
		}
	}
	return child, nil
}

// PointMutate returns a copy of g where each scalar, with probability rate,
// moves by amount in a random direction. Results saturate at 0 and
// MaxGeneValue so they stay within [0,1).
func (o *Operators) PointMutate(g Genome, rate, amount float64) Genome {
	out := g.Clone()
	for _, seed := range out {
		for i, v := range seed {
			if o.rng.Float64() >= rate {
				continue
			}
			if o.rng.Intn(2) == 0 {
				v -= amount
			} else {
				v += amount
			}
			seed[i] = clampGene(v)
		}
	}
	return out
}

// ShrinkMutate returns a copy of g with one random gene removed with
// probability rate. A single-gene genome is returned unchanged.
func (o *Operators) ShrinkMutate(g Genome, rate float64) Genome {
	out := g.Clone()
	if len(out) <= 1 {
		return out
	}
	if o.rng.Float64() >= rate {
		return out
	}
	idx := o.rng.Intn(len(out))
	return append(out[:idx], out[idx+1:]...)
}

// GrowMutate returns a copy of g with one new random gene appended with
// probability rate.
func (o *Operators) GrowMutate(g Genome, rate float64) Genome {
	out := g.Clone()
	if len(out) == 0 || o.rng.Float64() >= rate {
		return out
	}
	seed := make(Seed, len(out[0]))
	for i := range seed {
		seed[i] = o.rng.Float64()
	}
	return append(out, seed)
}

// Mutate applies point, shrink and grow mutation in that order.
func (o *Operators) Mutate(g Genome, rates MutationRates) Genome {
	out := o.PointMutate(g, rates.PointRate, rates.PointAmount)
	out = o.ShrinkMutate(out, rates.ShrinkRate)
	return o.GrowMutate(out, rates.GrowRate)
}

func clampGene(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return MaxGeneValue
	}
	return v
}
