package game

// Coordinates address a cell by column and row of the triangle. Row r holds
// columns 0..r.
type Coordinates struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Relative position of the neighbors of a cell in the triangular layout.
var neighborOffsets = [6]Coordinates{
	{Col: -1, Row: -1}, {Col: 0, Row: -1},
	{Col: -1, Row: 0}, {Col: 1, Row: 0},
	{Col: 0, Row: 1}, {Col: 1, Row: 1},
}

// CoordsToIndex translates a column and row to a cell index. Callers are
// responsible for range checks.
func CoordsToIndex(col, row int) int {
	return col + row*(row+1)/2
}

// IndexToCoords is the inverse of CoordsToIndex. It reports false for indices
// outside the board.
func IndexToCoords(i int) (Coordinates, bool) {
	if i < 0 || i >= BoardSize {
		return Coordinates{}, false
	}
	count, row := 0, 1
	for count+row < i+1 {
		count += row
		row++
	}
	return Coordinates{Col: i - count, Row: row - 1}, true
}

// Index returns the cell index of c, or false when c lies outside the board.
func (c Coordinates) Index() (int, bool) {
	if c.Row < 0 || c.Col < 0 || c.Col > c.Row {
		return 0, false
	}
	i := CoordsToIndex(c.Col, c.Row)
	if i >= BoardSize {
		return 0, false
	}
	return i, true
}
