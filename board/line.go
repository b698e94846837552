package board

// LineKind says which family a line belongs to.
type LineKind uint8

const (
	RowLine LineKind = iota
	ColumnLine
	MainDiagonal
	AntiDiagonal
)

func (k LineKind) String() string {
	switch k {
	case RowLine:
		return "row"
	case ColumnLine:
		return "column"
	case MainDiagonal:
		return "main-diagonal"
	case AntiDiagonal:
		return "anti-diagonal"
	}
	return "unknown"
}

// A Line is the ordered set of coordinates of one row, column or diagonal.
type Line struct {
	Kind LineKind
	// Index is the row or column number. It is 0 for diagonals.
	Index  int
	Coords []Coord
}

// NumLines is the number of lines on a dim×dim board: dim rows, dim columns
// and two diagonals.
func NumLines(dim int) int {
	return 2*dim + 2
}

// RowAt returns row i.
func (b *Board) RowAt(i int) Line {
	coords := make([]Coord, b.dim)
	for j := 0; j < b.dim; j++ {
		coords[j] = Coord{Row: i, Col: j}
	}
	return Line{Kind: RowLine, Index: i, Coords: coords}
}

// ColumnAt returns column i.
func (b *Board) ColumnAt(i int) Line {
	coords := make([]Coord, b.dim)
	for j := 0; j < b.dim; j++ {
		coords[j] = Coord{Row: j, Col: i}
	}
	return Line{Kind: ColumnLine, Index: i, Coords: coords}
}

// MainDiagonalLine runs from the top left to the bottom right.
func (b *Board) MainDiagonalLine() Line {
	coords := make([]Coord, b.dim)
	for j := 0; j < b.dim; j++ {
		coords[j] = Coord{Row: j, Col: j}
	}
	return Line{Kind: MainDiagonal, Coords: coords}
}

// AntiDiagonalLine runs from the top right to the bottom left.
func (b *Board) AntiDiagonalLine() Line {
	coords := make([]Coord, b.dim)
	for j := 0; j < b.dim; j++ {
		coords[j] = Coord{Row: j, Col: b.dim - 1 - j}
	}
	return Line{Kind: AntiDiagonal, Coords: coords}
}

// Lines returns every line in the fixed precedence order: rows 0..dim-1,
// columns 0..dim-1, the main diagonal, then the anti-diagonal.
func (b *Board) Lines() []Line {
	lines := make([]Line, 0, NumLines(b.dim))
	for i := 0; i < b.dim; i++ {
		lines = append(lines, b.RowAt(i))
	}
	for i := 0; i < b.dim; i++ {
		lines = append(lines, b.ColumnAt(i))
	}
	return append(lines, b.MainDiagonalLine(), b.AntiDiagonalLine())
}

// LineMarks reads the marks along l.
func (b *Board) LineMarks(l Line) []Mark {
	marks := make([]Mark, len(l.Coords))
	for i, c := range l.Coords {
		marks[i] = b.cells[c.Row*b.dim+c.Col]
	}
	return marks
}

// Contains reports whether c is one of the line's coordinates.
func (l Line) Contains(c Coord) bool {
	for _, lc := range l.Coords {
		if lc == c {
			return true
		}
	}
	return false
}
