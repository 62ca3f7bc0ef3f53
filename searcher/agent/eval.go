package agent

import (
	"blackhole/experiments/metrics"
	"blackhole/game"
	"blackhole/searcher"
	"context"
	"sync"

	"golang.org/x/exp/rand"
)

type evaluationAgent struct {
	mcts *searcher.MonteCarlo
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MonteCarlo) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(ctx context.Context, board *game.Board) (int, metrics.SearchMetric, error) {
	return a.mcts.FindMove(ctx, board)
}

type randomAgent struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomAgent returns the baseline agent playing uniformly random legal
// moves.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{r: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(ctx context.Context, board *game.Board) (int, metrics.SearchMetric, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	move, err := board.PickRandomMove(a.r)
	return move, metrics.SearchMetric{}, err
}
