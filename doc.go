// Package neatevo provides a steady-state NEAT-style neuroevolution core.
//
// A Population owns a fixed array of genomes addressed by stable integer
// ids. Every genome wraps a packed-memory feed-forward network (package
// neat/nn) whose weights are the evolving genetic material. Each call to
// Epoch evicts at most one genome, the worst performer that has outlived
// its protection window, and refills the slot with a clone drawn from a
// fitness-weighted species.
//
// Fitness is supplied externally: the caller runs each genome on its task,
// scores it, and reports the score back. Nothing inside the core blocks or
// spawns goroutines; a single owner drives evaluation and generational
// advancement.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	rng := rand.New(rand.NewSource(42))
//	pop, err := neat.NewPopulation(config, rng)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	for gen := 0; gen < 100; gen++ {
//		for id := 0; id < pop.NumGenomes(); id++ {
//			outputs := pop.Run(id, inputs)
//			pop.SetFitness(id, score(outputs))
//			pop.IncreaseTimeAlive(id)
//		}
//		pop.Epoch()
//	}
//
// Package neat/archive can be attached to persist per-epoch summaries to
// SQLite for later inspection.
package neatevo
