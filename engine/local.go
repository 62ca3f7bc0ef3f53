package engine

import (
	"blackhole/experiments/metrics"
	"blackhole/game"
	"blackhole/searcher/agent"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Local plays a game between two in-process agents. Agents[0] plays the
// human side and moves first.
type Local struct {
	Board  *game.Board
	Agents []agent.Agent
}

func LocalEngine(agents []agent.Agent) *Local {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	return &Local{
		Board:  game.NewBoard(),
		Agents: agents,
	}
}

// Run executes the entire game loop until the board is full.
func (e *Local) Run(ctx context.Context) (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("player %s is starting", e.Board.CurrentPlayer())

	for step := 1; !e.Board.IsTerminal() && step <= MaxMoves; step++ {
		if err := ctx.Err(); err != nil {
			return game.Result{}, gameMetric, moveMetrics, err
		}

		player := e.Board.CurrentPlayer()
		move, searchMetric, err := e.Agents[player].FindMove(ctx, e.Board)
		if err != nil {
			return game.Result{}, gameMetric, moveMetrics, fmt.Errorf("%s failed to find move %d: %w", player, step, err)
		}
		if err := e.Board.Apply(move); err != nil {
			return game.Result{}, gameMetric, moveMetrics, fmt.Errorf("%s played move %d: %w", player, step, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       int(player),
			Move:         move,
			SearchMetric: searchMetric,
		})
		log.Debug().Int("step", step).Stringer("player", player).Int("move", move).Msg("move played")
	}

	result, over := e.Board.Result()
	if !over {
		return game.Result{}, gameMetric, moveMetrics, fmt.Errorf("game did not finish after %d moves", MaxMoves)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Score = result.Score
	gameMetric.Winner = winner(result)

	return result, gameMetric, moveMetrics, nil
}

func winner(result game.Result) string {
	if result.Draw {
		return "draw"
	}
	return result.Winner.String()
}
