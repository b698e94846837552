package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/tictac/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a tic-tac-toe position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	// oToMove is xored in when O is the side to move.
	oToMove uint64

	// posTable[i][m] is the key for mark m on cell i. Empty has no key.
	posTable [][3]uint64

	boardDim int
}

func (z *Zobrist) Initialize(boardDim int) {
	z.boardDim = boardDim
	z.posTable = make([][3]uint64, boardDim*boardDim)
	for i := 0; i < boardDim*boardDim; i++ {
		z.posTable[i][board.X] = frand.Uint64n(bignum) + 1
		z.posTable[i][board.O] = frand.Uint64n(bignum) + 1
	}
	z.oToMove = frand.Uint64n(bignum) + 1
}

func (z *Zobrist) BoardDim() int {
	return z.boardDim
}

// Hash computes the key for a whole board with toMove on turn.
func (z *Zobrist) Hash(b *board.Board, toMove board.Mark) uint64 {
	key := uint64(0)
	for i, m := range b.Cells() {
		if m == board.Empty {
			continue
		}
		key ^= z.posTable[i][m]
	}
	if toMove == board.O {
		key ^= z.oToMove
	}
	return key
}
