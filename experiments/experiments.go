package experiments

import (
	"blackhole/engine"
	"blackhole/experiments/metrics"
	"blackhole/searcher"
	"blackhole/searcher/agent"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Experiment pairs agents in match ups. Every match up plays Games games and
// the agents swap sides after each game.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
	Games    int
}

var parallelGoroutines = []int{1, 2, 4, 8, 16}

// BudgetExperiment pairs Monte Carlo agents of growing episode budgets against
// the random baseline.
func BudgetExperiment(games int) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Random: true}
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: 4, Episodes: 50},
		{ID: 2, Goroutines: 4, Episodes: 200},
		{ID: 3, Goroutines: 4, Episodes: 1000},
		{ID: 4, Goroutines: 4, Episodes: searcher.DefaultEpisodes},
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	return Experiment{
		Name:     "budget",
		Configs:  append(configs, baseline),
		MatchUps: matchUps,
		Games:    games,
	}
}

// ParallelizationExperiment pairs agents with more goroutines against the
// sequential baseline under the same time budget.
func ParallelizationExperiment(games int, budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: budget}
	configs := []metrics.AgentConfig{}
	for i, goroutines := range parallelGoroutines {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Goroutines: goroutines, Duration: budget})
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	return Experiment{
		Name:     "parallelization",
		Configs:  append(configs, baseline),
		MatchUps: matchUps,
		Games:    games,
	}
}

// Preset returns the named experiment.
func Preset(name string, games int, budget time.Duration) (Experiment, error) {
	switch name {
	case "budget":
		return BudgetExperiment(games), nil
	case "parallelization":
		return ParallelizationExperiment(games, budget), nil
	case "throughput":
		return ThroughputExperiment(games, budget), nil
	default:
		return Experiment{}, fmt.Errorf("unknown experiment %q", name)
	}
}

// Run plays every match up and stores the agent configs, game records and
// move records under outputDir. It returns the directory holding the files.
func Run(ctx context.Context, e Experiment, outputDir string) (string, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", e.Name)

	for mi, matchup := range e.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(e.MatchUps), matchup[0], matchup[1])

		for i := 0; i < e.Games; i++ {
			// Alternate the starting agent
			first, second := matchup[0], matchup[1]
			if i%2 == 1 {
				first, second = second, first
			}

			gameMetric, moveMetrics, err := runGame(ctx, first, second)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     matchup[0].ID,
				Agent2:     matchup[1].ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(e.MatchUps), i+1, gameMetric.Winner)
		}
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	writer, err := metrics.NewWriter(outputDir, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")

	return writer.Dir(), nil
}

// runGame plays first on the human side against second.
func runGame(ctx context.Context, first, second metrics.AgentConfig) (metrics.GameMetric, []metrics.MoveMetric, error) {
	e := engine.LocalEngine([]agent.Agent{createAgent(first), createAgent(second)})

	_, gameMetric, moveMetrics, err := e.Run(ctx)
	gameMetric.StartingAgent = first.ID
	return gameMetric, moveMetrics, err
}

func createAgent(config metrics.AgentConfig) agent.Agent {
	if config.Random {
		seed := config.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return agent.NewRandomAgent(seed)
	}

	options := []searcher.Option{}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Seed > 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}

	options = append(options, searcher.WithMetrics())
	return agent.NewEvaluationAgent(searcher.NewMonteCarlo(config.Goroutines, options...))
}
