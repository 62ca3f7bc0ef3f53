package communication

import (
	"blackhole/gamemaster"
	"context"
)

// Communicator abstracts how a UI collaborator reaches the game: in process
// through a gamemaster.Game or remotely through the HTTP client.
type Communicator interface {
	Status(ctx context.Context) (gamemaster.Status, error)
	LegalMoves(ctx context.Context) ([]int, error)
	Play(ctx context.Context, index int) (gamemaster.Status, error)
	ComputerMove(ctx context.Context) (int, gamemaster.Status, error)
	Reset(ctx context.Context) (gamemaster.Status, error)
}

var _ Communicator = (*gamemaster.Game)(nil)
