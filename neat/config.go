package neat

import (
	"fmt"

	"gopkg.in/ini.v1"

	"neatevo/neat/nn"
)

// Config stores the parameters driving the population and the networks it
// creates. It is treated as immutable once a population has been created.
type Config struct {
	Population PopulationConfig
	Network    NetworkConfig
}

// PopulationConfig holds the parameters of the generational replacement
// algorithm.
type PopulationConfig struct {
	PopulationSize int `ini:"population_size"`

	// Genomes whose time alive has not exceeded this value are protected
	// from eviction.
	GenomeMinimumTicksAlive int `ini:"genome_minimum_ticks_alive"`

	// Compatibility distance below which a genome joins a species. The INI
	// key keeps the historical spelling.
	GenomeCompatibilityThreshold float64 `ini:"genome_compatibility_treshold"`

	// Probability of taking the crossover branch during reproduction. The
	// branch is a dormant extension point; drawing it means no replacement
	// happens this epoch.
	SpeciesCrossoverProbability float64 `ini:"species_crossover_probability"`
}

// NetworkConfig holds the fixed topology and runtime settings handed to
// every genome's network.
type NetworkConfig struct {
	NumInputs       int `ini:"num_inputs"`
	NumHiddens      int `ini:"num_hiddens"`
	NumOutputs      int `ini:"num_outputs"`
	NumHiddenLayers int `ini:"num_hidden_layers"`

	HiddenActivation string  `ini:"hidden_activation"`
	OutputActivation string  `ini:"output_activation"`
	Bias             float64 `ini:"bias"`
}

// DefaultConfig returns a config with the runtime defaults filled in.
// Topology and population size still have to be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			HiddenActivation: "sigmoid",
			OutputActivation: "sigmoid",
			Bias:             nn.DefaultBias,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	if err := cfg.Section("Population").MapTo(&config.Population); err != nil {
		return nil, fmt.Errorf("failed to map [Population] section: %w", err)
	}
	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the parameter ranges and the activation names.
func (c *Config) Validate() error {
	if c.Population.PopulationSize <= 0 {
		return fmt.Errorf("config error: population_size must be positive")
	}
	if c.Population.GenomeMinimumTicksAlive < 0 {
		return fmt.Errorf("config error: genome_minimum_ticks_alive cannot be negative")
	}
	if c.Population.GenomeCompatibilityThreshold < 0 {
		return fmt.Errorf("config error: genome_compatibility_treshold cannot be negative")
	}
	if p := c.Population.SpeciesCrossoverProbability; p < 0 || p > 1 {
		return fmt.Errorf("config error: species_crossover_probability must be between 0 and 1")
	}

	if c.Network.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if c.Network.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	if c.Network.NumHiddens < 0 || c.Network.NumHiddenLayers < 0 {
		return fmt.Errorf("config error: num_hiddens and num_hidden_layers cannot be negative")
	}
	if (c.Network.NumHiddens > 0) != (c.Network.NumHiddenLayers > 0) {
		return fmt.Errorf("config error: num_hiddens and num_hidden_layers must be zero or positive together")
	}

	if _, err := nn.ParseActivation(c.Network.HiddenActivation); err != nil {
		return fmt.Errorf("config error: invalid hidden_activation: %w", err)
	}
	if _, err := nn.ParseActivation(c.Network.OutputActivation); err != nil {
		return fmt.Errorf("config error: invalid output_activation: %w", err)
	}

	return nil
}

// activations resolves the configured activation kinds. Validate has already
// checked the names, so a failure here is a programming fault.
func (c *Config) activations() (hidden, output nn.Activation) {
	hidden, err := nn.ParseActivation(c.Network.HiddenActivation)
	if err != nil {
		panic(err)
	}
	output, err = nn.ParseActivation(c.Network.OutputActivation)
	if err != nil {
		panic(err)
	}
	return hidden, output
}
