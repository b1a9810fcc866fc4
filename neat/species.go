package neat

import "math/rand"

// Species clusters genomes that fall within the compatibility threshold of
// its representative. The population retains ownership of every member; the
// species only keeps references, plus its own copy of the representative for
// compatibility testing.
type Species struct {
	representative *Genome
	members        []*Genome
}

// newSpecies creates a species. base may be nil; the first genome added to
// an empty species becomes its representative.
func newSpecies(base *Genome) *Species {
	s := &Species{}
	if base != nil {
		s.representative = base.Copy()
	}
	return s
}

// Len returns the current member count.
func (s *Species) Len() int {
	return len(s.members)
}

// Representative returns the species' owned representative copy, or nil for
// a species that never had a member.
func (s *Species) Representative() *Genome {
	return s.representative
}

// AddGenome adds a genome reference to the species. An empty species adopts
// a copy of the genome as its representative.
func (s *Species) AddGenome(g *Genome) {
	if s.representative == nil {
		s.representative = g.Copy()
	}
	s.members = append(s.members, g)
}

// RemoveGenome removes a genome reference by identity. It reports whether
// the species contained the genome.
func (s *Species) RemoveGenome(g *Genome) bool {
	for i, member := range s.members {
		if member == g {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the species holds a reference to the genome.
func (s *Species) Contains(g *Genome) bool {
	for _, member := range s.members {
		if member == g {
			return true
		}
	}
	return false
}

// AverageFitness returns the mean fitness of the members, 0 for an empty
// species.
func (s *Species) AverageFitness() float64 {
	if len(s.members) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, g := range s.members {
		sum += g.Fitness
	}
	return sum / float64(len(s.members))
}

// SelectGenitor picks a uniformly random member to reproduce from. It
// returns nil for an empty species.
func (s *Species) SelectGenitor(rng *rand.Rand) *Genome {
	if len(s.members) == 0 {
		return nil
	}
	return s.members[rng.Intn(len(s.members))]
}
