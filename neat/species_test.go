package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenome(t *testing.T, fitness float64) *Genome {
	t.Helper()
	g := NewGenome(testConfig(), 1, rand.New(rand.NewSource(99)))
	g.Fitness = fitness
	return g
}

func TestSpeciesAddAndRemove(t *testing.T) {
	s := newSpecies(nil)
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Representative())

	a := testGenome(t, 1.0)
	b := testGenome(t, 2.0)

	s.AddGenome(a)
	s.AddGenome(b)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(a))
	assert.True(t, s.Contains(b))

	assert.True(t, s.RemoveGenome(a))
	assert.False(t, s.Contains(a))
	assert.Equal(t, 1, s.Len())

	// Removing a genome that is not a member reports false.
	assert.False(t, s.RemoveGenome(a))
}

func TestSpeciesRepresentativeIsOwnedCopy(t *testing.T) {
	base := testGenome(t, 3.0)
	s := newSpecies(base)

	rep := s.Representative()
	require.NotNil(t, rep)
	assert.NotSame(t, base, rep)
	assert.Zero(t, rep.Distance(base))

	// The representative survives its genome leaving the species.
	s.AddGenome(base)
	s.RemoveGenome(base)
	assert.Same(t, rep, s.Representative())
}

func TestSpeciesFirstMemberBecomesRepresentative(t *testing.T) {
	s := newSpecies(nil)

	g := testGenome(t, 1.0)
	s.AddGenome(g)

	rep := s.Representative()
	require.NotNil(t, rep)
	assert.NotSame(t, g, rep)
	assert.Zero(t, rep.Distance(g))
}

func TestSpeciesAverageFitness(t *testing.T) {
	s := newSpecies(nil)
	assert.Zero(t, s.AverageFitness())

	s.AddGenome(testGenome(t, 2.0))
	s.AddGenome(testGenome(t, 4.0))
	s.AddGenome(testGenome(t, 9.0))
	assert.InDelta(t, 5.0, s.AverageFitness(), 1e-12)
}

func TestSpeciesSelectGenitor(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	s := newSpecies(nil)
	assert.Nil(t, s.SelectGenitor(rng))

	members := []*Genome{testGenome(t, 1.0), testGenome(t, 2.0), testGenome(t, 3.0)}
	for _, g := range members {
		s.AddGenome(g)
	}

	for i := 0; i < 32; i++ {
		genitor := s.SelectGenitor(rng)
		assert.True(t, s.Contains(genitor))
	}
}
