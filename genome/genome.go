package genome

import (
	"fmt"
	"math/rand"
)

// Seed is one gene: a raw value in [0,1) per catalog channel.
type Seed []float64

// Genome is an ordered sequence of seeds. Position 0 is the root gene.
type Genome []Seed

// Clone returns a deep copy of the seed.
func (s Seed) Clone() Seed {
	out := make(Seed, len(s))
	copy(out, s)
	return out
}

// RandomSeed draws one independent uniform value in [0,1) per channel.
func RandomSeed(rng *rand.Rand, spec *Spec) Seed {
	seed := make(Seed, spec.Len())
	for i := range seed {
		seed[i] = rng.Float64()
	}
	return seed
}

// RandomGenome draws geneCount independent seeds.
func RandomGenome(rng *rand.Rand, spec *Spec, geneCount int) (Genome, error) {
	if geneCount < 1 {
		return nil, fmt.Errorf("random genome: %w, got %d", ErrGeneCount, geneCount)
	}
	g := make(Genome, geneCount)
	for i := range g {
		g[i] = RandomSeed(rng, spec)
	}
	return g, nil
}

// Clone returns a deep copy of the genome.
func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	for i, s := range g {
		out[i] = s.Clone()
	}
	return out
}

// Equal reports whether both genomes hold the same values element-wise.
func (g Genome) Equal(other Genome) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if len(g[i]) != len(other[i]) {
			return false
		}
		for j := range g[i] {
			if g[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Validate checks that the genome is non-empty, every seed matches the
// catalog width and every value lies in [0,1).
func (g Genome) Validate(spec *Spec) error {
	if len(g) == 0 {
		return ErrEmptyGenome
	}
	for i, s := range g {
		if len(s) != spec.Len() {
			return fmt.Errorf("gene %d: %w: want %d, got %d", i, ErrSeedWidth, spec.Len(), len(s))
		}
		for j, v := range s {
			if v < 0 || v >= 1 {
				return fmt.Errorf("gene %d channel %d: %w: %v", i, j, ErrSeedRange, v)
			}
		}
	}
	return nil
}
