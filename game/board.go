package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/exp/rand"
)

// Board represents the dynamic state of a game. The tiles live in a fixed
// size array so copying a Board by value never aliases state.
type Board struct {
	tiles         [BoardSize]Tile
	currentPlayer Player
	nextMove      [2]int // Value of the next tile per player
}

// NewBoard returns an empty board with the human to move.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Replay builds a board by applying moves in order from the initial state.
func Replay(moves ...int) (*Board, error) {
	b := NewBoard()
	for _, move := range moves {
		if err := b.Apply(move); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Reset restores the initial state in place.
func (b *Board) Reset() {
	b.tiles = [BoardSize]Tile{}
	b.currentPlayer = Human
	b.nextMove = [2]int{1, 1}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) CurrentPlayer() Player {
	return b.currentPlayer
}

// CurrentPlayerValue returns the value the next tile of the current player
// will carry.
func (b *Board) CurrentPlayerValue() int {
	return b.nextMove[b.currentPlayer]
}

// Tile returns the tile at index i, or false if the cell is empty or i is
// outside the board.
func (b *Board) Tile(i int) (Tile, bool) {
	if i < 0 || i >= BoardSize || b.tiles[i].IsEmpty() {
		return Tile{}, false
	}
	return b.tiles[i], true
}

// Placed returns the number of tiles on the board.
func (b *Board) Placed() int {
	return b.nextMove[Human] - 1 + b.nextMove[Computer] - 1
}

// IsTerminal reports whether the game is over, i.e. only one empty cell is
// left. The scan stops at the second empty cell.
func (b *Board) IsTerminal() bool {
	empty := false
	for i := range b.tiles {
		if b.tiles[i].IsEmpty() {
			if empty {
				return false
			}
			empty = true
		}
	}
	return true
}

// LegalMoves returns the indices of all empty cells in ascending order. On a
// terminal board there are none.
func (b *Board) LegalMoves() []int {
	if b.IsTerminal() {
		return nil
	}
	moves := make([]int, 0, BoardSize-b.Placed())
	for i := range b.tiles {
		if b.tiles[i].IsEmpty() {
			moves = append(moves, i)
		}
	}
	return moves
}

// PickRandomMove picks a legal move uniformly at random. A nil r uses the
// package level source.
func (b *Board) PickRandomMove(r *rand.Rand) (int, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return 0, ErrNoLegalMoves
	}
	if r == nil {
		return moves[rand.Intn(len(moves))], nil
	}
	return moves[r.Intn(len(moves))], nil
}

// Apply places the current player's next tile at index i and passes the turn.
func (b *Board) Apply(i int) error {
	if i < 0 || i >= BoardSize {
		return fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidMove, i, BoardSize)
	}
	if !b.tiles[i].IsEmpty() {
		return fmt.Errorf("%w: cell %d is already occupied", ErrInvalidMove, i)
	}
	if b.IsTerminal() {
		return fmt.Errorf("%w: game is over", ErrInvalidMove)
	}

	b.tiles[i] = Tile{Player: b.currentPlayer, Value: b.nextMove[b.currentPlayer]}
	b.nextMove[b.currentPlayer]++
	b.currentPlayer = b.currentPlayer.Opponent()
	return nil
}

// Hole returns the index of the black hole once the game is over.
func (b *Board) Hole() (int, bool) {
	if !b.IsTerminal() {
		return 0, false
	}
	for i := range b.tiles {
		if b.tiles[i].IsEmpty() {
			return i, true
		}
	}
	return 0, false
}

// Hash identifies the position. Two boards with the same tiles and player to
// move hash equally.
func (b *Board) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(b.currentPlayer))
	for _, tile := range b.tiles {
		binary.Write(hasher, binary.LittleEndian, int64(tile.Player))
		binary.Write(hasher, binary.LittleEndian, int64(tile.Value))
	}

	return StateHash(hasher.Sum64())
}

func (b *Board) String() string {
	return Render(b.Tile)
}

// Render draws the triangle row by row from a cell lookup. Empty cells show
// their index, tiles show their owner (H or C) and value.
func Render(tile func(i int) (Tile, bool)) string {
	var sb strings.Builder
	rows := 0
	for CoordsToIndex(0, rows) < BoardSize {
		rows++
	}
	for row := 0; row < rows; row++ {
		sb.WriteString(strings.Repeat("  ", rows-row-1))
		for col := 0; col <= row; col++ {
			i := CoordsToIndex(col, row)
			if col > 0 {
				sb.WriteByte(' ')
			}
			t, ok := tile(i)
			switch {
			case !ok:
				fmt.Fprintf(&sb, "(%2d)", i)
			case t.Player == Human:
				fmt.Fprintf(&sb, " H%-2d", t.Value)
			default:
				fmt.Fprintf(&sb, " C%-2d", t.Value)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
