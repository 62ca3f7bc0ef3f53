package game

// Neighbors returns the tiles around c. Cells outside the board and empty
// cells are skipped.
func (b *Board) Neighbors(c Coordinates) []Tile {
	result := make([]Tile, 0, len(neighborOffsets))
	for _, offset := range neighborOffsets {
		n := Coordinates{Col: c.Col + offset.Col, Row: c.Row + offset.Row}
		if tile, ok := b.safeGetTile(n); ok {
			result = append(result, tile)
		}
	}
	return result
}

func (b *Board) safeGetTile(c Coordinates) (Tile, bool) {
	i, ok := c.Index()
	if !ok {
		return Tile{}, false
	}
	return b.Tile(i)
}

// Score sums the tiles swallowed by the black hole: human tiles count
// negative, computer tiles positive. It is 0 while the game is running so
// playouts can read it unconditionally.
func (b *Board) Score() int {
	hole, ok := b.Hole()
	if !ok {
		return 0
	}
	coords, _ := IndexToCoords(hole)

	score := 0
	for _, tile := range b.Neighbors(coords) {
		if tile.Player == Human {
			score -= tile.Value
		} else {
			score += tile.Value
		}
	}
	return score
}

// Result is the outcome of a finished game. The side whose swallowed tiles
// sum lower wins, by the difference.
type Result struct {
	Score  int    `json:"score"`
	Winner Player `json:"winner"`
	Margin int    `json:"margin"`
	Draw   bool   `json:"draw"`
}

// Result reports the outcome, or false while the game is running. A positive
// score means the human swallowed less and wins.
func (b *Board) Result() (Result, bool) {
	if !b.IsTerminal() {
		return Result{}, false
	}
	score := b.Score()
	switch {
	case score > 0:
		return Result{Score: score, Winner: Human, Margin: score}, true
	case score < 0:
		return Result{Score: score, Winner: Computer, Margin: -score}, true
	default:
		return Result{Draw: true}, true
	}
}
