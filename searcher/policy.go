package searcher

import (
	"blackhole/game"

	"golang.org/x/exp/slices"
)

// Estimate is the mean terminal score observed after a first move.
type Estimate struct {
	Mean    float64
	Samples int
}

// Policy maps each sampled first move to its estimate.
type Policy map[int]Estimate

// Moves returns the sampled moves in ascending order.
func (p Policy) Moves() []int {
	moves := make([]int, 0, len(p))
	for move := range p {
		moves = append(moves, move)
	}
	slices.Sort(moves)
	return moves
}

// Best returns the move whose mean score favors player the most. A positive
// score favors the human, so the computer takes the minimum mean and the
// human the maximum. Ties go to the lowest index. Moves without samples are
// never chosen; false means nothing was sampled.
func (p Policy) Best(player game.Player) (int, bool) {
	best, found := 0, false
	var bestMean float64
	for _, move := range p.Moves() {
		e := p[move]
		if e.Samples == 0 {
			continue
		}
		if !found || prefers(player, e.Mean, bestMean) {
			best, bestMean, found = move, e.Mean, true
		}
	}
	return best, found
}

func prefers(player game.Player, mean, than float64) bool {
	if player == game.Computer {
		return mean < than
	}
	return mean > than
}
