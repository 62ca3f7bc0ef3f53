package gamemaster

import "blackhole/game"

// Status is a snapshot of the game for the UI collaborator.
type Status struct {
	Cells         []*game.Tile `json:"cells"` // nil for empty cells
	CurrentPlayer game.Player  `json:"currentPlayer"`
	NextValue     int          `json:"nextValue"`
	LegalMoves    []int        `json:"legalMoves"`
	LastMove      *int         `json:"lastMove,omitempty"`
	Over          bool         `json:"over"`
	Result        *game.Result `json:"result,omitempty"`
}

func snapshot(board *game.Board, lastMove int) Status {
	status := Status{
		Cells:         make([]*game.Tile, game.BoardSize),
		CurrentPlayer: board.CurrentPlayer(),
		NextValue:     board.CurrentPlayerValue(),
		LegalMoves:    board.LegalMoves(),
	}
	for i := range status.Cells {
		if tile, ok := board.Tile(i); ok {
			status.Cells[i] = &tile
		}
	}
	if status.LegalMoves == nil {
		status.LegalMoves = []int{}
	}
	if lastMove >= 0 {
		status.LastMove = &lastMove
	}
	if result, over := board.Result(); over {
		status.Over = true
		status.Result = &result
	}
	return status
}
