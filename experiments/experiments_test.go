package experiments

import (
	"blackhole/engine"
	"blackhole/experiments/metrics"
	"blackhole/game"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	random := metrics.AgentConfig{ID: 0, Goroutines: 1, Random: true, Seed: 3}
	mcts := metrics.AgentConfig{ID: 1, Goroutines: 2, Episodes: 30, Seed: 5}
	e := Experiment{
		Name:     "smoke",
		Configs:  []metrics.AgentConfig{random, mcts},
		MatchUps: [][2]metrics.AgentConfig{{random, mcts}},
		Games:    2,
	}

	dir, err := Run(context.Background(), e, t.TempDir())
	require.NoError(t, err)

	games := readCSV(t, filepath.Join(dir, "game_records.csv"))
	require.Len(t, games, 3)
	require.Equal(t, "0", games[1][3], "Agent1 starts the first game")
	require.Equal(t, "1", games[2][3], "Agent2 starts the second game")
	for _, row := range games[1:] {
		require.Equal(t, "0", row[1])
		require.Equal(t, "1", row[2])
		require.Contains(t, []string{"human", "computer", "draw"}, row[4])
	}

	moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
	require.Len(t, moves, 1+2*engine.MaxMoves)

	configs := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
	require.Len(t, configs, 3)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := BudgetExperiment(1)
	_, err := Run(ctx, e, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestPresets(t *testing.T) {
	budget, err := Preset("budget", 4, 0)
	require.NoError(t, err)
	require.Len(t, budget.MatchUps, 4)
	for _, matchUp := range budget.MatchUps {
		require.True(t, matchUp[0].Random)
		require.False(t, matchUp[1].Random)
	}

	parallel, err := Preset("parallelization", 2, 5*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, parallel.Configs, len(parallelGoroutines)+1)
	for _, matchUp := range parallel.MatchUps {
		require.Equal(t, 1, matchUp[0].Goroutines)
		require.Equal(t, 5*time.Millisecond, matchUp[1].Duration)
	}

	throughput, err := Preset("throughput", 1, time.Millisecond)
	require.NoError(t, err)
	for _, matchUp := range throughput.MatchUps {
		require.Equal(t, matchUp[0], matchUp[1])
	}

	_, err = Preset("cutoff", 1, 0)
	require.Error(t, err)
}

func TestCreateAgent(t *testing.T) {
	board := game.NewBoard()

	move, metric, err := createAgent(metrics.AgentConfig{Random: true, Seed: 1}).FindMove(context.Background(), board)
	require.NoError(t, err)
	require.Contains(t, board.LegalMoves(), move)
	require.Zero(t, metric.Episodes, "The random agent does not search")

	move, metric, err = createAgent(metrics.AgentConfig{Goroutines: 2, Episodes: 10, Seed: 1}).FindMove(context.Background(), board)
	require.NoError(t, err)
	require.Contains(t, board.LegalMoves(), move)
	require.Equal(t, 10, metric.Episodes, "Experiment agents collect metrics")
	require.Equal(t, 2, metric.Goroutines)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}
