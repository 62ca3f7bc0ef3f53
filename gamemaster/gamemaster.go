package gamemaster

import (
	"blackhole/game"
	"blackhole/searcher/agent"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrWrongTurn = errors.New("not this player's turn")
	ErrStale     = errors.New("position changed during search")
)

// Game is the single game a human plays against the computer. The board is
// only changed by confirmed moves; searches run on clones.
type Game struct {
	mu          sync.Mutex
	board       *game.Board
	lastMove    int
	computer    agent.Agent
	subscribers map[int]chan Status
	nextID      int
}

func NewGame(computer agent.Agent) *Game {
	return &Game{
		board:       game.NewBoard(),
		lastMove:    -1,
		computer:    computer,
		subscribers: make(map[int]chan Status),
	}
}

func (g *Game) Status(ctx context.Context) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return snapshot(g.board, g.lastMove), nil
}

func (g *Game) LegalMoves(ctx context.Context) ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.LegalMoves(), nil
}

// Play applies the human move at index.
func (g *Game) Play(ctx context.Context, index int) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.board.IsTerminal() && g.board.CurrentPlayer() != game.Human {
		return snapshot(g.board, g.lastMove), fmt.Errorf("human move: %w", ErrWrongTurn)
	}
	if err := g.board.Apply(index); err != nil {
		return snapshot(g.board, g.lastMove), err
	}

	log.Info().Int("move", index).Msg("human played")
	return g.commit(index), nil
}

// ComputerMove asks the computer agent for its move and applies it.
func (g *Game) ComputerMove(ctx context.Context) (int, Status, error) {
	g.mu.Lock()
	if g.board.IsTerminal() {
		status := snapshot(g.board, g.lastMove)
		g.mu.Unlock()
		return 0, status, fmt.Errorf("computer move: %w", game.ErrNoLegalMoves)
	}
	if g.board.CurrentPlayer() != game.Computer {
		status := snapshot(g.board, g.lastMove)
		g.mu.Unlock()
		return 0, status, fmt.Errorf("computer move: %w", ErrWrongTurn)
	}
	position := g.board.Clone()
	g.mu.Unlock()

	move, metric, err := g.computer.FindMove(ctx, position)
	if err != nil {
		status, _ := g.Status(ctx)
		return 0, status, fmt.Errorf("computer move: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.Hash() != position.Hash() {
		return 0, snapshot(g.board, g.lastMove), ErrStale
	}
	if err := g.board.Apply(move); err != nil {
		return 0, snapshot(g.board, g.lastMove), err
	}

	log.Info().
		Int("move", move).
		Int("episodes", metric.Episodes).
		Dur("duration", metric.Duration).
		Msg("computer played")
	return move, g.commit(move), nil
}

// Reset starts a new game.
func (g *Game) Reset(ctx context.Context) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.board.Reset()
	log.Info().Msg("game reset")
	return g.commit(-1), nil
}

// Subscribe returns a channel receiving the status after every change, and
// a function to stop the subscription. Updates are dropped for subscribers
// that fall behind.
func (g *Game) Subscribe() (<-chan Status, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	ch := make(chan Status, 8)
	g.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.subscribers, id)
			close(ch)
		})
	}
}

// commit records the last move and notifies subscribers. Callers hold mu.
func (g *Game) commit(lastMove int) Status {
	g.lastMove = lastMove
	status := snapshot(g.board, lastMove)
	if status.Over {
		log.Info().Int("score", status.Result.Score).Msg("game over")
	}
	for id, ch := range g.subscribers {
		select {
		case ch <- status:
		default:
			log.Warn().Int("subscriber", id).Msg("dropping status update for slow subscriber")
		}
	}
	return status
}
