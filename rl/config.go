package rl

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

// Config stores the configuration parameters for both training strategies.
type Config struct {
	Network    NetworkConfig
	Gradient   GradientConfig
	Population PopulationConfig
	Mutation   MutationConfig
	Board      BoardConfig
}

// NetworkConfig describes the network topology and activations.
type NetworkConfig struct {
	Layers           []int  `ini:"layers" delim:" "` // Space-separated layer sizes
	HiddenActivation string `ini:"hidden_activation"`
	OutputActivation string `ini:"output_activation"` // Empty: same as hidden
}

// GradientConfig holds parameters of finite-difference training.
type GradientConfig struct {
	LearnRate      float64 `ini:"learn_rate"`
	LearnRateDecay float64 `ini:"learn_rate_decay"`
	Delta          float64 `ini:"delta"`
	Iterations     int     `ini:"iterations"` // Updates per epoch
	ParallelCommit bool    `ini:"parallel_commit"`
}

// PopulationConfig holds parameters of evolutionary training.
type PopulationConfig struct {
	PopSize        int     `ini:"pop_size"`
	NumIter        int     `ini:"num_iter"`        // Episodes per network per generation
	RetainFraction float64 `ini:"retain_fraction"` // Fraction of the population surviving a generation
	Workers        int     `ini:"workers"`         // 0: one per logical core
	Seed           int64   `ini:"seed"`
	ClampScores    bool    `ini:"clamp_scores"`
}

// MutationConfig selects the mutation policy and its rate.
type MutationConfig struct {
	Policy      string  `ini:"policy"` // "resample" or "scale"
	Probability float64 `ini:"probability"`
	Adaptive    bool    `ini:"adaptive"` // Derive the rate from the mean score
}

// BoardConfig sizes the navigation board.
type BoardConfig struct {
	Width  int `ini:"width"`
	Height int `ini:"height"`
}

// DefaultConfig returns the configuration used for keys a file leaves out.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			Layers:           []int{4, 4, NumActions},
			HiddenActivation: "sigmoid",
		},
		Gradient: GradientConfig{
			LearnRate:      100,
			LearnRateDecay: 0.1,
			Delta:          1e-8,
			Iterations:     1000,
		},
		Population: PopulationConfig{
			PopSize:        100,
			NumIter:        100,
			RetainFraction: 0.5,
			Seed:           1,
		},
		Mutation: MutationConfig{
			Policy:      "scale",
			Probability: 0.05,
		},
		Board: BoardConfig{Width: 100, Height: 100},
	}
}

// LoadConfig loads configuration parameters from an INI file. Missing keys
// keep the values of DefaultConfig.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config file '%s'", filePath)
	}

	config := DefaultConfig()

	sections := []struct {
		name   string
		target interface{}
	}{
		{"Network", &config.Network},
		{"Gradient", &config.Gradient},
		{"Population", &config.Population},
		{"Mutation", &config.Mutation},
		{"Board", &config.Board},
	}
	for _, s := range sections {
		if err := cfg.Section(s.name).MapTo(s.target); err != nil {
			return nil, errors.Wrapf(err, "failed to map [%s] section", s.name)
		}
	}

	config.Network.HiddenActivation = strings.TrimSpace(config.Network.HiddenActivation)
	config.Network.OutputActivation = strings.TrimSpace(config.Network.OutputActivation)
	config.Mutation.Policy = strings.ToLower(strings.TrimSpace(config.Mutation.Policy))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if _, err := nn.ConnectionCount(c.Network.Layers); err != nil {
		return errors.Wrap(err, "config error: layers")
	}
	if out := c.Network.Layers[len(c.Network.Layers)-1]; out != NumActions {
		return errors.Errorf("config error: output layer must have %d nodes, got %d", NumActions, out)
	}
	if c.Network.Layers[0] != 4 {
		return errors.Errorf("config error: input layer must have 4 nodes, got %d", c.Network.Layers[0])
	}
	if _, err := nn.NewActivations(c.Network.HiddenActivation, c.Network.OutputActivation); err != nil {
		return errors.Wrap(err, "config error")
	}

	if c.Gradient.Delta == 0 {
		return errors.New("config error: delta must be non-zero")
	}
	if c.Gradient.LearnRate <= 0 {
		return errors.New("config error: learn_rate must be positive")
	}
	if c.Gradient.LearnRateDecay < 0 {
		return errors.New("config error: learn_rate_decay cannot be negative")
	}
	if c.Gradient.Iterations <= 0 {
		return errors.New("config error: iterations must be positive")
	}

	if c.Population.PopSize <= 0 {
		return errors.New("config error: pop_size must be positive")
	}
	if c.Population.NumIter <= 0 {
		return errors.New("config error: num_iter must be positive")
	}
	if c.Population.RetainFraction <= 0 || c.Population.RetainFraction > 1 {
		return errors.New("config error: retain_fraction must be in (0, 1]")
	}
	if c.Population.Workers < 0 {
		return errors.New("config error: workers cannot be negative")
	}

	if _, err := NewMutator(c.Mutation.Policy); err != nil {
		return errors.Wrap(err, "config error")
	}
	if c.Mutation.Probability < 0 || c.Mutation.Probability > 1 {
		return errors.New("config error: probability must be between 0 and 1")
	}

	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return errors.New("config error: board width and height must be positive")
	}
	return nil
}

// MutationRate returns the rate policy selected by the mutation section.
func (c MutationConfig) MutationRate() MutationRate {
	if c.Adaptive {
		return AdaptiveRate{}
	}
	return FixedRate(c.Probability)
}
