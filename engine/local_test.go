package engine

import (
	"blackhole/experiments/metrics"
	"blackhole/game"
	"blackhole/searcher"
	"blackhole/searcher/agent"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedAgent struct {
	moves []int
}

func (a *scriptedAgent) FindMove(ctx context.Context, board *game.Board) (int, metrics.SearchMetric, error) {
	move := a.moves[0]
	a.moves = a.moves[1:]
	return move, metrics.SearchMetric{Episodes: 1}, nil
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("plays a full game between agents", func(t *testing.T) {
		mcts := searcher.NewMonteCarlo(2, searcher.WithEpisodes(50), searcher.WithMetrics())
		e := LocalEngine([]agent.Agent{agent.NewRandomAgent(1), agent.NewEvaluationAgent(mcts)})

		result, gameMetric, moveMetrics, err := e.Run(context.Background())
		require.NoError(t, err)

		require.True(t, e.Board.IsTerminal())
		require.Len(t, moveMetrics, game.BoardSize-1)
		require.Equal(t, game.BoardSize-1, gameMetric.TotalMoves)
		require.Equal(t, result.Score, gameMetric.Score)
		require.Equal(t, e.Board.Score(), result.Score)
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step)
			require.Equal(t, i%2, mm.Player, "Players should alternate starting with the human side")
			if mm.Player == int(game.Computer) {
				require.Equal(t, 50, mm.Episodes)
			}
		}
	})

	t.Run("reports the winner", func(t *testing.T) {
		// Hole at 0 swallows human 1 and computer 10
		human := &scriptedAgent{moves: []int{1, 4, 6, 8, 10, 12, 14, 16, 18, 20}}
		computer := &scriptedAgent{moves: []int{3, 5, 7, 9, 11, 13, 15, 17, 19, 2}}
		e := LocalEngine([]agent.Agent{human, computer})

		result, gameMetric, _, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, game.Result{Score: 9, Winner: game.Human, Margin: 9}, result)
		require.Equal(t, "human", gameMetric.Winner)
	})

	t.Run("rejects an illegal agent move", func(t *testing.T) {
		e := LocalEngine([]agent.Agent{
			&scriptedAgent{moves: []int{0, 1}},
			&scriptedAgent{moves: []int{0}},
		})

		_, _, moveMetrics, err := e.Run(context.Background())
		require.ErrorIs(t, err, game.ErrInvalidMove)
		require.Len(t, moveMetrics, 1)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := LocalEngine([]agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)})

		_, _, _, err := e.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("panics without two agents", func(t *testing.T) {
		require.Panics(t, func() {
			LocalEngine([]agent.Agent{agent.NewRandomAgent(1)})
		})
	})
}
