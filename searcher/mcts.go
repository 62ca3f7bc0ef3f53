package searcher

import (
	"blackhole/experiments/metrics"
	"blackhole/game"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(m *MonteCarlo)

// MonteCarlo ranks the legal moves of a position by the average terminal
// score of random playouts starting with each move. A MonteCarlo runs one
// search at a time.
type MonteCarlo struct {
	mu         sync.Mutex
	goroutines int
	duration   time.Duration
	episodes   int
	seed       uint64
	seeded     bool
	metrics    metrics.Collector
}

// WithDuration bounds the search by time. Without an episode budget the
// search runs until the deadline, otherwise the deadline stops the budget
// early.
func WithDuration(duration time.Duration) Option {
	return func(m *MonteCarlo) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MonteCarlo) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

// WithSeed makes episode budgets reproducible: playout k of every search
// draws from a source seeded with seed+k.
func WithSeed(seed uint64) Option {
	return func(m *MonteCarlo) {
		m.seed = seed
		m.seeded = true
	}
}

func WithMetrics() Option {
	return func(m *MonteCarlo) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMonteCarlo(goroutines int, options ...Option) *MonteCarlo {
	if goroutines <= 0 {
		panic("Must use at least one goroutine")
	}
	m := &MonteCarlo{ // Default values
		goroutines: goroutines,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		m.episodes = DefaultEpisodes
	}
	return m
}

// FindMove returns the best move for the player to move on board. The board
// is not modified; the caller applies the move.
func (m *MonteCarlo) FindMove(ctx context.Context, board *game.Board) (int, metrics.SearchMetric, error) {
	policy, metric, err := m.Simulate(ctx, board)
	if err != nil {
		return 0, metric, err
	}

	if move, ok := policy.Best(board.CurrentPlayer()); ok {
		return move, metric, nil
	}

	log.Warn().Msg("no playout completed, falling back to a random move")
	move, err := board.PickRandomMove(nil)
	return move, metric, err
}

// Simulate runs the playouts and returns the estimate of every sampled first
// move.
func (m *MonteCarlo) Simulate(ctx context.Context, board *game.Board) (Policy, metrics.SearchMetric, error) {
	if board.IsTerminal() {
		return nil, metrics.SearchMetric{}, fmt.Errorf("cannot search a finished game: %w", game.ErrNoLegalMoves)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.duration)
		defer cancel()
	}

	seed := m.seed
	if !m.seeded {
		seed = uint64(time.Now().UnixNano())
	}

	// Run simulations to collect statistics
	root := board.Clone()
	m.metrics.Start(m.goroutines, m.episodes)
	var results []outcomes
	if m.episodes > 0 {
		results = m.iterate(ctx, root, seed)
	} else {
		results = m.countdown(ctx, root, seed)
	}
	policy := merge(results)
	m.metrics.SetCandidates(len(policy))
	metric := m.metrics.Complete()

	log.Debug().
		Int("goroutines", m.goroutines).
		Int("candidates", len(policy)).
		Dur("elapsed", metric.Duration).
		Msg("search complete")

	return policy, metric, nil
}

func (m *MonteCarlo) iterate(ctx context.Context, root *game.Board, seed uint64) []outcomes {
	var next atomic.Int64

	results := make([]outcomes, m.goroutines)
	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			result := outcomes{}
			results[worker] = result
			for {
				episode := next.Add(1) - 1
				if episode >= int64(m.episodes) || ctx.Err() != nil {
					return
				}
				r := rand.New(rand.NewSource(seed + uint64(episode)))
				move, score := rollout(root, r)
				result.add(move, score)
				m.metrics.AddEpisode()
			}
		}(i)
	}

	wg.Wait()
	return results
}

func (m *MonteCarlo) countdown(ctx context.Context, root *game.Board, seed uint64) []outcomes {
	results := make([]outcomes, m.goroutines)
	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			result := outcomes{}
			results[worker] = result
			r := rand.New(rand.NewSource(seed + uint64(worker)))
			for {
				select {
				case <-ctx.Done():
					return
				default:
					move, score := rollout(root, r)
					result.add(move, score)
					m.metrics.AddEpisode()
				}
			}
		}(i)
	}

	wg.Wait()
	return results
}

// rollout plays a clone of root to the end with uniformly random moves and
// returns the first move played and the terminal score.
func rollout(root *game.Board, r *rand.Rand) (int, int) {
	state := root.Clone()
	first := -1
	// The board fills in fewer than BoardSize moves
	for depth := 0; depth < game.BoardSize && !state.IsTerminal(); depth++ {
		move, err := state.PickRandomMove(r)
		if err == nil {
			err = state.Apply(move)
		}
		if err != nil {
			panic(fmt.Sprintf("playout reached an unplayable position: %v", err))
		}
		if first == -1 {
			first = move
		}
	}
	return first, state.Score()
}
