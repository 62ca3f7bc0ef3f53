package engine

import (
	"blackhole/experiments/metrics"
	"blackhole/game"
	"context"
)

// MaxMoves bounds a game loop. A game always ends after BoardSize-1 moves.
const MaxMoves = game.BoardSize - 1

type Engine interface {
	// Run plays a game till the board is full
	Run(ctx context.Context) (result game.Result, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
