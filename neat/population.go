package neat

import (
	"fmt"
	"math"
	"math/rand"
)

// EpochStats summarizes one Epoch call for an attached Recorder.
type EpochStats struct {
	Generation   int
	Replaced     bool
	EvictedID    int // -1 when no genome was eligible for eviction
	NewSpecies   bool
	SpeciesCount int
	BestFitness  float64
}

// Recorder receives a summary after every Epoch call. Implementations must
// not call back into the population.
type Recorder interface {
	RecordEpoch(stats EpochStats)
}

// Population owns a fixed-length array of genomes, indexed by a stable id
// that never changes across generations, and the species they are grouped
// into. All operations are synchronous and must be driven by a single owner;
// see the package documentation for the concurrency contract.
type Population struct {
	conf *Config
	rng  *rand.Rand

	genomes []*Genome
	species []*Species

	innovation int
	generation int

	// Solved is maintained for callers that track termination; the core
	// never reads it.
	Solved bool

	recorder Recorder
}

// NewPopulation creates a population of weight-identical genomes: one base
// genome seeds the innovation counter and is cloned for every remaining
// slot. All genomes start in a single species represented by the base
// genome. The random source is explicit so runs can be reproduced under a
// fixed seed.
func NewPopulation(conf *Config, rng *rand.Rand) (*Population, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	p := &Population{
		conf:       conf,
		rng:        rng,
		genomes:    make([]*Genome, conf.Population.PopulationSize),
		innovation: 1,
	}

	p.genomes[0] = NewGenome(conf, p.innovation, rng)
	p.innovation++
	for i := 1; i < len(p.genomes); i++ {
		p.genomes[i] = p.genomes[0].Copy()
	}

	first := newSpecies(p.genomes[0])
	for _, g := range p.genomes {
		first.AddGenome(g)
	}
	p.species = append(p.species, first)

	return p, nil
}

// Config returns the configuration the population was created with.
func (p *Population) Config() *Config {
	return p.conf
}

// NumGenomes returns the fixed population size.
func (p *Population) NumGenomes() int {
	return len(p.genomes)
}

// NumSpecies returns the number of species, including ones that currently
// have no members.
func (p *Population) NumSpecies() int {
	return len(p.species)
}

// Generation returns the number of Epoch calls so far.
func (p *Population) Generation() int {
	return p.generation
}

// Genome returns the genome stored at id.
func (p *Population) Genome(id int) *Genome {
	p.checkID(id)
	return p.genomes[id]
}

// Species returns the species at the given position in stored order.
func (p *Population) Species(i int) *Species {
	if i < 0 || i >= len(p.species) {
		panic(fmt.Sprintf("neat: species index %d out of range (have %d)", i, len(p.species)))
	}
	return p.species[i]
}

// BestFitness returns the highest fitness currently in the population.
func (p *Population) BestFitness() float64 {
	best := math.Inf(-1)
	for _, g := range p.genomes {
		if g.Fitness > best {
			best = g.Fitness
		}
	}
	return best
}

// SetRecorder attaches a recorder that receives a summary after every
// Epoch. Passing nil detaches it.
func (p *Population) SetRecorder(r Recorder) {
	p.recorder = r
}

// Run feeds inputs through the genome's network and returns its output
// buffer. The buffer is owned by the network and reused on the next Run of
// the same genome; it is not safe to retain or to use concurrently.
func (p *Population) Run(id int, inputs []float64) []float64 {
	p.checkID(id)
	return p.genomes[id].Run(inputs)
}

// SetFitness stores the raw score for a genome. The value itself is not
// validated.
func (p *Population) SetFitness(id int, fitness float64) {
	p.checkID(id)
	p.genomes[id].Fitness = fitness
}

// IncreaseTimeAlive increments the genome's survival counter. Only genomes
// whose counter exceeds the configured minimum are eligible for eviction.
func (p *Population) IncreaseTimeAlive(id int) {
	p.checkID(id)
	p.genomes[id].TimeAlive++
}

// Epoch advances the population by one generation: the worst eligible
// genome is evicted from its species, a reproduction species is drawn by
// roulette wheel over the species' average fitness, and a clone of one of
// its genitors takes over the evicted slot before being re-speciated. At
// most one genome is replaced per call. Finding no eligible genome, or
// exhausting the roulette draw without a match, completes silently.
func (p *Population) Epoch() {
	p.generation++

	stats := EpochStats{
		Generation: p.generation,
		EvictedID:  -1,
	}

	worst, found := p.findWorstFitness()
	if !found {
		p.record(stats)
		return
	}
	stats.EvictedID = worst

	// The worst genome leaves every species before any averages are
	// computed, so it cannot bias the selection of its own replacement.
	for _, s := range p.species {
		s.RemoveGenome(p.genomes[worst])
	}

	stats.Replaced, stats.NewSpecies = p.selectReproductionSpecies(worst)
	p.record(stats)
}

// findWorstFitness scans for the strict minimum fitness among genomes that
// have outlived the protection window. Ties keep the first index.
func (p *Population) findWorstFitness() (int, bool) {
	worst := 0
	found := false

	worstFitness := math.MaxFloat64
	for i, g := range p.genomes {
		if g.Fitness < worstFitness && g.TimeAlive > p.conf.Population.GenomeMinimumTicksAlive {
			worst = i
			worstFitness = g.Fitness
			found = true
		}
	}

	return worst, found
}

// speciesFitnessAverage returns the mean of the species' average fitness.
// Empty species count toward the divisor; the roulette wheel skips them but
// their share of the total is never redistributed.
func (p *Population) speciesFitnessAverage() float64 {
	total := 0.0
	for _, s := range p.species {
		total += s.AverageFitness()
	}
	return total / float64(len(p.species))
}

// selectReproductionSpecies draws the species that reproduces into the
// evicted slot: roulette wheel in stored species order via successive
// subtraction, without renormalizing after skipped empty species. A draw
// that exhausts the wheel leaves the slot unreplaced, which is a normal
// outcome. It reports whether a replacement happened and whether
// re-speciation created a new species.
func (p *Population) selectReproductionSpecies(worst int) (replaced, newSpecies bool) {
	totalAvg := p.speciesFitnessAverage()

	selection := p.rng.Float64()
	for _, s := range p.species {
		if s.Len() == 0 {
			continue
		}

		prob := s.AverageFitness() / totalAvg
		if selection > prob {
			selection -= prob
			continue
		}

		if p.rng.Float64() < p.conf.Population.SpeciesCrossoverProbability {
			// Crossover is a dormant extension point; the draw is
			// consumed but no replacement happens.
		} else {
			genitor := s.SelectGenitor(p.rng)
			p.replaceGenome(worst, genitor)
			replaced = true
		}

		newSpecies = p.speciateGenome(worst)

		break
	}

	return replaced, newSpecies
}

// replaceGenome clones src into the slot at dest, preserving the slot's
// external id.
func (p *Population) replaceGenome(dest int, src *Genome) {
	if p.genomes[dest] == src {
		panic(fmt.Sprintf("neat: genome %d cannot replace itself", dest))
	}
	p.genomes[dest] = src.Copy()
}

// speciateGenome assigns the genome at id to the first species whose
// representative it is compatible with, or to a fresh species of its own.
// It reports whether a new species was created.
func (p *Population) speciateGenome(id int) bool {
	genome := p.genomes[id]
	threshold := p.conf.Population.GenomeCompatibilityThreshold

	for _, s := range p.species {
		if genome.IsCompatible(s.Representative(), threshold) {
			s.AddGenome(genome)
			return false
		}
	}

	fresh := newSpecies(nil)
	fresh.AddGenome(genome)
	p.species = append(p.species, fresh)
	return true
}

func (p *Population) record(stats EpochStats) {
	if p.recorder == nil {
		return
	}
	stats.SpeciesCount = len(p.species)
	stats.BestFitness = p.BestFitness()
	p.recorder.RecordEpoch(stats)
}

func (p *Population) checkID(id int) {
	if id < 0 || id >= len(p.genomes) {
		panic(fmt.Sprintf("neat: genome id %d out of range (population size %d)", id, len(p.genomes)))
	}
}
