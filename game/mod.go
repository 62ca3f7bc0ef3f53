package game

import "errors"

const (
	// NumTurns is the number of tiles each player places in a game.
	NumTurns = 10
	// BoardSize is the number of cells. Both players place NumTurns tiles
	// and exactly one cell is left empty: the black hole.
	BoardSize = NumTurns*2 + 1
)

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrNoLegalMoves = errors.New("no legal moves")
)

// Player identifies a side. The human always moves first.
type Player int

const (
	Human Player = iota
	Computer
)

func (p Player) Opponent() Player {
	return 1 - p
}

func (p Player) String() string {
	switch p {
	case Human:
		return "human"
	case Computer:
		return "computer"
	default:
		return "unknown"
	}
}

// Tile is placed once per move and never changes afterwards. The zero Tile
// marks an empty cell since values start at 1.
type Tile struct {
	Player Player `json:"player"`
	Value  int    `json:"value"`
}

func (t Tile) IsEmpty() bool {
	return t.Value == 0
}

type StateHash uint64
