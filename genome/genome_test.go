package genome

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenome(t *testing.T, seed int64, genes int) (*Spec, Genome) {
	t.Helper()
	spec := DefaultSpec()
	g, err := RandomGenome(rand.New(rand.NewSource(seed)), spec, genes)
	require.NoError(t, err)
	return spec, g
}

func TestDefaultSpec(t *testing.T) {
	spec := DefaultSpec()
	require.Equal(t, 17, spec.Len())

	for i, ch := range spec.Channels() {
		assert.Equal(t, i, ch.Index, "channel %s", ch.Name)
		assert.Equal(t, defaultChannels[i].Scale, ch.Scale, "channel %s", ch.Name)
		assert.Equal(t, i, spec.Index(ch.Name))
	}

	rpy, ok := spec.Lookup(JointOriginRPY1)
	require.True(t, ok)
	assert.InDelta(t, 2*math.Pi, rpy.Scale, 1e-12)
	assert.Equal(t, -1, spec.Index("no-such-channel"))
}

func TestBuildSpecOverrides(t *testing.T) {
	spec, err := BuildSpec(map[string]float64{LinkLength: 5, ControlAmplitude: 1})
	require.NoError(t, err)

	length, _ := spec.Lookup(LinkLength)
	assert.Equal(t, 5.0, length.Scale)
	assert.Equal(t, 1, length.Index)

	amp, _ := spec.Lookup(ControlAmplitude)
	assert.Equal(t, 1.0, amp.Scale)

	// Untouched channels keep their defaults.
	radius, _ := spec.Lookup(LinkRadius)
	assert.Equal(t, 1.0, radius.Scale)

	// The default catalog is not modified by overrides.
	def, _ := DefaultSpec().Lookup(LinkLength)
	assert.Equal(t, 2.0, def.Scale)
}

func TestBuildSpecRejectsBadOverrides(t *testing.T) {
	_, err := BuildSpec(map[string]float64{"tail-length": 2})
	assert.ErrorIs(t, err, ErrUnknownChannel)

	_, err = BuildSpec(map[string]float64{LinkMass: math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, err = BuildSpec(map[string]float64{LinkMass: math.Inf(1)})
	assert.ErrorIs(t, err, ErrInvalidScale)

	bounded := []map[string]float64{
		{LinkRecurrence: 1e300},
		{LinkRecurrence: MaxRecurrenceScale + 1},
		{LinkRecurrence: -1},
		{JointParent: 2},
		{JointParent: -0.5},
	}
	for _, overrides := range bounded {
		_, err = BuildSpec(overrides)
		assert.ErrorIs(t, err, ErrInvalidScale, "overrides %v", overrides)
	}

	_, err = BuildSpec(map[string]float64{LinkRecurrence: MaxRecurrenceScale, JointParent: 0.5})
	assert.NoError(t, err, "bounds are inclusive")
}

func TestRandomSeed(t *testing.T) {
	spec := DefaultSpec()
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 100; trial++ {
		seed := RandomSeed(rng, spec)
		require.Len(t, seed, spec.Len())
		for _, v := range seed {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestRandomGenome(t *testing.T) {
	spec, g := newTestGenome(t, 2, 3)
	require.Len(t, g, 3)
	for _, seed := range g {
		assert.Len(t, seed, spec.Len())
	}
	assert.NoError(t, g.Validate(spec))

	_, err := RandomGenome(rand.New(rand.NewSource(2)), spec, 0)
	assert.ErrorIs(t, err, ErrGeneCount)
}

func TestGenomeValidate(t *testing.T) {
	spec, g := newTestGenome(t, 3, 2)

	assert.ErrorIs(t, Genome{}.Validate(spec), ErrEmptyGenome)

	short := g.Clone()
	short[1] = short[1][:5]
	assert.ErrorIs(t, short.Validate(spec), ErrSeedWidth)

	outOfRange := g.Clone()
	outOfRange[0][4] = 1
	assert.ErrorIs(t, outOfRange.Validate(spec), ErrSeedRange)

	negative := g.Clone()
	negative[0][0] = -0.1
	assert.ErrorIs(t, negative.Validate(spec), ErrSeedRange)
}

func TestCloneIsDeep(t *testing.T) {
	_, g := newTestGenome(t, 4, 2)
	c := g.Clone()
	require.True(t, g.Equal(c))

	c[0][0] = 0.5
	if g[0][0] == 0.5 {
		c[0][0] = 0.25
	}
	assert.False(t, g.Equal(c))
}

func TestDecode(t *testing.T) {
	spec := DefaultSpec()
	seed := make(Seed, spec.Len())
	for i := range seed {
		seed[i] = 0.5
	}

	d, err := Decode(seed, spec)
	require.NoError(t, err)
	require.Len(t, d, spec.Len())

	assert.Equal(t, 1.0, d[LinkLength])
	assert.Equal(t, 1.5, d[LinkRecurrence])
	assert.Equal(t, 0.125, d[ControlAmplitude])
	assert.InDelta(t, math.Pi, d[JointOriginRPY2], 1e-12)

	again, err := Decode(seed, spec)
	require.NoError(t, err)
	assert.Equal(t, d, again)

	_, err = Decode(seed[:3], spec)
	assert.ErrorIs(t, err, ErrSeedWidth)
}

func TestDecodeAll(t *testing.T) {
	spec, g := newTestGenome(t, 5, 4)

	dicts, err := DecodeAll(g, spec)
	require.NoError(t, err)
	require.Len(t, dicts, len(g))
	for i, d := range dicts {
		for _, ch := range spec.Channels() {
			assert.Equal(t, g[i][ch.Index]*ch.Scale, d[ch.Name])
		}
	}

	_, err = DecodeAll(Genome{}, spec)
	assert.ErrorIs(t, err, ErrEmptyGenome)
}
