package creature

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/morphogen/genome"
	"github.com/pthm-cable/morphogen/morphology"
	"github.com/pthm-cable/morphogen/urdf"
)

func newCreature(t *testing.T, seed int64, genes int) *Creature {
	t.Helper()
	c, err := New(rand.New(rand.NewSource(seed)), genome.DefaultSpec(), genes)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c := newCreature(t, 1, 3)
	assert.Len(t, c.Genome(), 3)
	assert.Nil(t, c.body, "nothing is built until first access")

	_, err := New(rand.New(rand.NewSource(1)), genome.DefaultSpec(), 0)
	assert.ErrorIs(t, err, genome.ErrGeneCount)
}

func TestLazyMaterialization(t *testing.T) {
	c := newCreature(t, 2, 5)

	flat, err := c.FlatNodes()
	require.NoError(t, err)
	assert.Len(t, flat, 5)
	require.NotNil(t, c.body)

	expanded, err := c.ExpandedNodes()
	require.NoError(t, err)
	require.NoError(t, morphology.Validate(expanded))
	assert.GreaterOrEqual(t, len(expanded), 1)

	motors, err := c.Motors()
	require.NoError(t, err)
	assert.Len(t, motors, len(expanded)-1)

	// Repeated calls return the cached motors so phase persists.
	if len(motors) > 0 {
		motors[0].Sample()
		again, err := c.Motors()
		require.NoError(t, err)
		assert.Same(t, motors[0], again[0])
		assert.NotZero(t, again[0].Phase())
	}
}

func TestSetGenomeInvalidatesEverything(t *testing.T) {
	c := newCreature(t, 3, 4)
	_, err := c.Motors()
	require.NoError(t, err)
	c.UpdatePosition(Point{0, 0, 0})
	c.UpdatePosition(Point{1, 0, 0})

	g, err := genome.RandomGenome(rand.New(rand.NewSource(4)), c.Spec(), 1)
	require.NoError(t, err)
	require.NoError(t, c.SetGenome(g))

	assert.Nil(t, c.body)
	assert.Zero(t, c.Displacement())

	flat, err := c.FlatNodes()
	require.NoError(t, err)
	assert.Len(t, flat, 1)
	expanded, err := c.ExpandedNodes()
	require.NoError(t, err)
	assert.Len(t, expanded, 1)
	motors, err := c.Motors()
	require.NoError(t, err)
	assert.Empty(t, motors)
}

func TestSetGenomeRejectsInvalid(t *testing.T) {
	c := newCreature(t, 5, 2)
	before := c.Genome()

	assert.ErrorIs(t, c.SetGenome(genome.Genome{}), genome.ErrEmptyGenome)
	assert.ErrorIs(t, c.SetGenome(genome.Genome{genome.Seed{0.5}}), genome.ErrSeedWidth)
	assert.True(t, before.Equal(c.Genome()), "failed replacement keeps the old genome")
}

func TestFromGenomeCopies(t *testing.T) {
	spec := genome.DefaultSpec()
	g, err := genome.RandomGenome(rand.New(rand.NewSource(6)), spec, 2)
	require.NoError(t, err)

	c, err := FromGenome(spec, g)
	require.NoError(t, err)
	g[0][0] = 0.123456
	assert.NotEqual(t, 0.123456, c.Genome()[0][0])
}

func TestDisplacement(t *testing.T) {
	c := newCreature(t, 7, 1)
	assert.Zero(t, c.Displacement())

	c.UpdatePosition(Point{1, 2, 3})
	assert.Zero(t, c.Displacement(), "only the start is known")

	c.UpdatePosition(Point{10, 10, 10})
	c.UpdatePosition(Point{4, 6, 3})
	assert.InDelta(t, 5.0, c.Displacement(), 1e-12)
}

func TestURDF(t *testing.T) {
	c := newCreature(t, 8, 4)
	data, err := c.URDF(urdf.DefaultOptions())
	require.NoError(t, err)

	expanded, err := c.ExpandedNodes()
	require.NoError(t, err)
	doc := string(data)
	assert.Equal(t, len(expanded), strings.Count(doc, "<link "))
	assert.Equal(t, len(expanded)-1, strings.Count(doc, "<joint "))
}
