package genome

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	spec := DefaultSpec()
	rng := rand.New(rand.NewSource(70))
	path := filepath.Join(t.TempDir(), "genome.csv")

	for _, genes := range []int{1, 3, 12} {
		g, err := RandomGenome(rng, spec, genes)
		require.NoError(t, err)

		require.NoError(t, ToCSV(g, spec, path))
		loaded, err := FromCSV(path, spec)
		require.NoError(t, err)
		assert.True(t, g.Equal(loaded), "round trip of %d genes", genes)
	}
}

func TestCSVRoundTripBoundaryValues(t *testing.T) {
	spec := DefaultSpec()
	g := Genome{make(Seed, spec.Len()), make(Seed, spec.Len())}
	for i := range g[1] {
		g[1][i] = MaxGeneValue
	}
	g[0][3] = 1e-300

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g, spec))
	loaded, err := ReadCSV(&buf, spec)
	require.NoError(t, err)
	assert.True(t, g.Equal(loaded))
}

func TestCSVHeader(t *testing.T) {
	spec, g := newTestGenome(t, 71, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g, spec))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(spec.Names(), ","), lines[0])
}

func TestReadCSVRejectsMalformed(t *testing.T) {
	spec, g := newTestGenome(t, 72, 2)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g, spec))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	header := lines[0]

	t.Run("short row", func(t *testing.T) {
		cells := strings.Split(lines[1], ",")
		bad := header + "\n" + strings.Join(cells[:len(cells)-1], ",") + "\n"
		_, err := ReadCSV(strings.NewReader(bad), spec)
		assert.ErrorIs(t, err, ErrColumnCount)
	})

	t.Run("long row", func(t *testing.T) {
		bad := header + "\n" + lines[1] + ",0.5\n"
		_, err := ReadCSV(strings.NewReader(bad), spec)
		assert.ErrorIs(t, err, ErrColumnCount)
	})

	t.Run("renamed column", func(t *testing.T) {
		bad := strings.Replace(header, ControlFrequency, "control-speed", 1) + "\n" + lines[1] + "\n"
		_, err := ReadCSV(strings.NewReader(bad), spec)
		assert.ErrorIs(t, err, ErrHeader)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(header+"\n"), spec)
		assert.ErrorIs(t, err, ErrEmptyGenome)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""), spec)
		assert.ErrorIs(t, err, ErrEmptyGenome)
	})

	t.Run("value out of range", func(t *testing.T) {
		cells := strings.Split(lines[1], ",")
		cells[0] = "1.5"
		bad := header + "\n" + strings.Join(cells, ",") + "\n"
		_, err := ReadCSV(strings.NewReader(bad), spec)
		assert.ErrorIs(t, err, ErrSeedRange)
	})
}

func TestWriteCSVRejectsInvalid(t *testing.T) {
	spec := DefaultSpec()
	var buf bytes.Buffer

	assert.ErrorIs(t, WriteCSV(&buf, Genome{}, spec), ErrEmptyGenome)
	assert.ErrorIs(t, WriteCSV(&buf, Genome{Seed{0.1, 0.2}}, spec), ErrSeedWidth)
}

func TestFromCSVMissingFile(t *testing.T) {
	_, err := FromCSV(filepath.Join(t.TempDir(), "missing.csv"), DefaultSpec())
	assert.Error(t, err)
}
