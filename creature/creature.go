// Package creature ties a genome to its decoded body plan and motors.
package creature

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/morphogen/genome"
	"github.com/pthm-cable/morphogen/morphology"
	"github.com/pthm-cable/morphogen/motor"
	"github.com/pthm-cable/morphogen/urdf"
)

// Point is a position in simulator coordinates.
type Point [3]float64

// built holds every value derived from the genome. A Creature either has
// all of them or none.
type built struct {
	flat     []morphology.Node
	expanded []morphology.Node
	motors   []*motor.Motor
}

// Creature owns a genome and lazily materializes its skeleton and motors.
// Methods are not safe for concurrent use; distinct creatures share nothing
// and can be built in parallel.
type Creature struct {
	spec   *genome.Spec
	genome genome.Genome
	body   *built // nil until first materialized

	start *Point
	last  *Point
}

// New creates a creature with geneCount random genes.
func New(rng *rand.Rand, spec *genome.Spec, geneCount int) (*Creature, error) {
	g, err := genome.RandomGenome(rng, spec, geneCount)
	if err != nil {
		return nil, err
	}
	return &Creature{spec: spec, genome: g}, nil
}

// FromGenome creates a creature owning a copy of g.
func FromGenome(spec *genome.Spec, g genome.Genome) (*Creature, error) {
	c := &Creature{spec: spec}
	if err := c.SetGenome(g); err != nil {
		return nil, err
	}
	return c, nil
}

// Spec returns the gene catalog used to decode the genome.
func (c *Creature) Spec() *genome.Spec {
	return c.spec
}

// Genome returns a copy of the creature's genome.
func (c *Creature) Genome() genome.Genome {
	return c.genome.Clone()
}

// SetGenome replaces the genome. The derived skeleton, motors and tracked
// positions are discarded together.
func (c *Creature) SetGenome(g genome.Genome) error {
	if err := g.Validate(c.spec); err != nil {
		return fmt.Errorf("creature: %w", err)
	}
	c.genome = g.Clone()
	c.body = nil
	c.start = nil
	c.last = nil
	return nil
}

// materialize runs decode, flatten, expand and motor construction once.
func (c *Creature) materialize() (*built, error) {
	if c.body != nil {
		return c.body, nil
	}

	dicts, err := genome.DecodeAll(c.genome, c.spec)
	if err != nil {
		return nil, err
	}
	flat, err := morphology.Flatten(dicts)
	if err != nil {
		return nil, err
	}
	expanded, err := morphology.Expand(flat)
	if err != nil {
		return nil, err
	}

	c.body = &built{
		flat:     flat,
		expanded: expanded,
		motors:   motor.FromSkeleton(expanded),
	}
	return c.body, nil
}

// FlatNodes returns one node per gene, before expansion.
func (c *Creature) FlatNodes() ([]morphology.Node, error) {
	b, err := c.materialize()
	if err != nil {
		return nil, err
	}
	return b.flat, nil
}

// ExpandedNodes returns the body plan in pre-order, root first.
func (c *Creature) ExpandedNodes() ([]morphology.Node, error) {
	b, err := c.materialize()
	if err != nil {
		return nil, err
	}
	return b.expanded, nil
}

// Motors returns one motor per non-root expanded node. The same motors are
// returned on every call so their phase persists across simulation ticks.
func (c *Creature) Motors() ([]*motor.Motor, error) {
	b, err := c.materialize()
	if err != nil {
		return nil, err
	}
	return b.motors, nil
}

// UpdatePosition records the first reported position as the start and every
// later one as the last position.
func (c *Creature) UpdatePosition(p Point) {
	if c.start == nil {
		c.start = &p
		return
	}
	c.last = &p
}

// Displacement returns the straight-line distance between the start and the
// last position, or 0 until both are known.
func (c *Creature) Displacement() float64 {
	if c.start == nil || c.last == nil {
		return 0
	}
	return floats.Distance(c.start[:], c.last[:], 2)
}

// URDF renders the expanded skeleton as a URDF document.
func (c *Creature) URDF(opts urdf.Options) ([]byte, error) {
	expanded, err := c.ExpandedNodes()
	if err != nil {
		return nil, err
	}
	return urdf.Marshal(expanded, opts)
}
