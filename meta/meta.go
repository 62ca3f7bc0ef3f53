// meta/meta.go
package meta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// EPISODES defines the number of playouts per move.
const EPISODES = 2000

// ADDR defines the address the HTTP server listens on.
const ADDR = ":8080"

// EXPERIMENT_GAMES defines the number of games per match up.
const EXPERIMENT_GAMES = 30

// Config holds the runtime settings of the binary. Zero fields in a file keep
// their defaults.
type Config struct {
	Search     SearchConfig     `yaml:"search"`
	Server     ServerConfig     `yaml:"server"`
	Experiment ExperimentConfig `yaml:"experiment"`
	LogLevel   string           `yaml:"log_level"`
}

type SearchConfig struct {
	Goroutines int           `yaml:"goroutines"`
	Episodes   int           `yaml:"episodes"`
	Duration   time.Duration `yaml:"duration"`
	Seed       *uint64       `yaml:"seed"` // Unset for time based seeding
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ExperimentConfig struct {
	Name      string        `yaml:"name"`
	Games     int           `yaml:"games"`
	OutputDir string        `yaml:"output_dir"`
	Budget    time.Duration `yaml:"budget"` // Per move time budget of the parallelization experiment
}

func Default() Config {
	return Config{
		Search: SearchConfig{
			Goroutines: GO_ROUTINES,
			Episodes:   EPISODES,
		},
		Server: ServerConfig{Addr: ADDR},
		Experiment: ExperimentConfig{
			Name:      "budget",
			Games:     EXPERIMENT_GAMES,
			OutputDir: "results",
			Budget:    10 * time.Millisecond,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Search.Goroutines <= 0 {
		return fmt.Errorf("search.goroutines must be positive, got %d", c.Search.Goroutines)
	}
	if c.Search.Episodes < 0 || c.Search.Duration < 0 {
		return errors.New("search budget must not be negative")
	}
	if c.Search.Episodes == 0 && c.Search.Duration == 0 {
		return errors.New("search needs an episode budget or a duration")
	}
	if c.Experiment.Games <= 0 {
		return fmt.Errorf("experiment.games must be positive, got %d", c.Experiment.Games)
	}
	return nil
}
