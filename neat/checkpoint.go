package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"math/rand"
	"os"
)

// populationSaveData holds the parts of a Population worth persisting. The
// config is not saved; it is supplied again on load. Species membership is
// stored as genome indices because species only hold references into the
// population's genome array.
type populationSaveData struct {
	Genomes []*Genome

	SpeciesRepresentatives []*Genome
	SpeciesMembers         [][]int

	Innovation int
	Generation int
	Solved     bool
}

// SaveCheckpoint writes the population state to a gzip-compressed gob file.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)

	genomeIndex := make(map[*Genome]int, len(p.genomes))
	for i, g := range p.genomes {
		genomeIndex[g] = i
	}

	saveData := populationSaveData{
		Genomes:    p.genomes,
		Innovation: p.innovation,
		Generation: p.generation,
		Solved:     p.Solved,
	}

	for _, s := range p.species {
		saveData.SpeciesRepresentatives = append(saveData.SpeciesRepresentatives, s.representative)
		members := make([]int, 0, len(s.members))
		for _, g := range s.members {
			id, ok := genomeIndex[g]
			if !ok {
				return fmt.Errorf("species member not found in population genome array")
			}
			members = append(members, id)
		}
		saveData.SpeciesMembers = append(saveData.SpeciesMembers, members)
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		return fmt.Errorf("failed to encode population data: %w", err)
	}

	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish checkpoint file '%s': %w", filePath, err)
	}
	return nil
}

// LoadCheckpoint restores a population from a checkpoint file. The config
// must match the one the checkpoint was created with; the random source is
// supplied fresh because generator state is not persisted.
func LoadCheckpoint(filePath string, conf *Config, rng *rand.Rand) (*Population, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint file '%s': %w", filePath, err)
	}
	defer gzReader.Close()

	saveData := populationSaveData{}
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint file '%s': %w", filePath, err)
	}

	if len(saveData.Genomes) != conf.Population.PopulationSize {
		return nil, fmt.Errorf("checkpoint holds %d genomes but config expects %d",
			len(saveData.Genomes), conf.Population.PopulationSize)
	}
	if len(saveData.SpeciesRepresentatives) != len(saveData.SpeciesMembers) {
		return nil, fmt.Errorf("checkpoint species data is inconsistent")
	}

	p := &Population{
		conf:       conf,
		rng:        rng,
		genomes:    saveData.Genomes,
		innovation: saveData.Innovation,
		generation: saveData.Generation,
		Solved:     saveData.Solved,
	}

	for i, rep := range saveData.SpeciesRepresentatives {
		s := &Species{representative: rep}
		for _, id := range saveData.SpeciesMembers[i] {
			if id < 0 || id >= len(p.genomes) {
				return nil, fmt.Errorf("checkpoint species member id %d out of range", id)
			}
			s.members = append(s.members, p.genomes[id])
		}
		p.species = append(p.species, s)
	}

	return p, nil
}
