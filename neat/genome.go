package neat

import (
	"math"
	"math/rand"

	"neatevo/neat/nn"
)

// Genome is one candidate in the population: a network with its fitness and
// survival bookkeeping. The genome exclusively owns its network; Run hands
// back the network's reused output buffer.
type Genome struct {
	// Fitness is assigned externally via Population.SetFitness.
	Fitness float64

	// TimeAlive counts survival ticks. A genome only becomes eligible for
	// eviction once it has lived longer than the configured minimum.
	TimeAlive int

	// Innovation is the innovation number this genome was seeded with.
	Innovation int

	Net *nn.FFNet
}

// NewGenome creates a genome with a freshly randomized network built from
// the config topology.
func NewGenome(conf *Config, innovation int, rng *rand.Rand) *Genome {
	net := nn.NewFFNet(conf.Network.NumInputs, conf.Network.NumHiddens,
		conf.Network.NumOutputs, conf.Network.NumHiddenLayers)

	hidden, output := conf.activations()
	net.SetActivations(hidden, output)
	net.SetBias(conf.Network.Bias)
	net.Randomize(rng)

	return &Genome{
		Innovation: innovation,
		Net:        net,
	}
}

// Copy deep-copies the genome. The clone keeps the fitness of the original
// but starts with a fresh survival counter, so the replacement algorithm
// cannot immediately evict it again.
func (g *Genome) Copy() *Genome {
	return &Genome{
		Fitness:    g.Fitness,
		TimeAlive:  0,
		Innovation: g.Innovation,
		Net:        g.Net.Copy(),
	}
}

// Run delegates to the network's forward pass. The returned slice is owned
// by the network and reused on the next Run of this genome.
func (g *Genome) Run(inputs []float64) []float64 {
	return g.Net.Run(inputs)
}

// Distance is the compatibility distance between two genomes: the mean
// absolute difference of their weights. With a fixed topology every weight
// has a counterpart, so there is no disjoint-gene term.
func (g *Genome) Distance(other *Genome) float64 {
	w1 := g.Net.Weights()
	w2 := other.Net.Weights()
	if len(w1) != len(w2) {
		return math.Inf(1)
	}
	if len(w1) == 0 {
		return 0.0
	}

	sum := 0.0
	for i := range w1 {
		sum += math.Abs(w1[i] - w2[i])
	}
	return sum / float64(len(w1))
}

// IsCompatible reports whether the compatibility distance to other is below
// the threshold.
func (g *Genome) IsCompatible(other *Genome, threshold float64) bool {
	return g.Distance(other) < threshold
}
