package experiments

import (
	"blackhole/experiments/metrics"
	"time"
)

// ThroughputExperiment plays each goroutine count against itself. Both sides
// share the same strength, so the move records isolate episodes per second.
func ThroughputExperiment(games int, budget time.Duration) Experiment {
	configs := []metrics.AgentConfig{}
	matchUps := [][2]metrics.AgentConfig{}
	for i, goroutines := range parallelGoroutines {
		config := metrics.AgentConfig{ID: i + 1, Goroutines: goroutines, Duration: budget}
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}

	return Experiment{
		Name:     "throughput",
		Configs:  configs,
		MatchUps: matchUps,
		Games:    games,
	}
}
