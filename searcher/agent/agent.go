package agent

import (
	"blackhole/experiments/metrics"
	"blackhole/game"
	"context"
)

type Agent interface {
	// FindMove returns the move to play on board and performance metrics (if
	// collected) from the search. The board is left untouched.
	FindMove(ctx context.Context, board *game.Board) (int, metrics.SearchMetric, error)
}
