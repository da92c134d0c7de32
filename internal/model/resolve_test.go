package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyBoard() *BoardState {
	board := &BoardState{}
	for i := 0; i < 8; i++ {
		board.Board = append(board.Board, make([]*Piece, 8))
	}
	return board
}

func place(board *BoardState, pt PieceType, color Color, pos Position) {
	board.set(pos, &Piece{Type: pt, Color: color})
}

func mustParse(t *testing.T, text string) MoveIntent {
	t.Helper()
	intent, err := ParseMoveText(text)
	require.NoError(t, err)
	return intent
}

func TestResolveKnightOnStartBoard(t *testing.T) {
	board := newBoard()

	candidates := resolveCandidates(mustParse(t, "Nf3"), board, White)
	require.Len(t, candidates, 1)
	assert.Equal(t, Position{X: 6, Y: 7}, candidates[0].From) // g1
	assert.Equal(t, Position{X: 5, Y: 5}, candidates[0].To)   // f3
}

func TestResolvePawnGeometryIsPermissive(t *testing.T) {
	board := newBoard()

	// The pawn filter accepts any one-file sidestep over one or two ranks,
	// so c2, d2 and e2 all qualify for d4, in file order.
	candidates := resolveCandidates(mustParse(t, "d4"), board, White)
	require.Len(t, candidates, 3)
	assert.Equal(t, Position{X: 2, Y: 6}, candidates[0].From)
	assert.Equal(t, Position{X: 3, Y: 6}, candidates[1].From)
	assert.Equal(t, Position{X: 4, Y: 6}, candidates[2].From)
}

func TestResolveScanOrderTopRankFirst(t *testing.T) {
	board := emptyBoard()
	place(board, Rook, White, Position{X: 0, Y: 7}) // a1
	place(board, Rook, White, Position{X: 0, Y: 0}) // a8

	candidates := resolveCandidates(mustParse(t, "Ra4"), board, White)
	require.Len(t, candidates, 2)
	// Rank 8 scans before rank 1.
	assert.Equal(t, Position{X: 0, Y: 0}, candidates[0].From)
	assert.Equal(t, Position{X: 0, Y: 7}, candidates[1].From)
}

func TestResolveRankHintFilters(t *testing.T) {
	board := emptyBoard()
	place(board, Rook, White, Position{X: 0, Y: 7}) // a1
	place(board, Rook, White, Position{X: 0, Y: 0}) // a8

	candidates := resolveCandidates(mustParse(t, "R1a4"), board, White)
	require.Len(t, candidates, 1)
	assert.Equal(t, Position{X: 0, Y: 7}, candidates[0].From)
}

func TestResolveFileHintFilters(t *testing.T) {
	board := emptyBoard()
	place(board, Knight, White, Position{X: 1, Y: 7}) // b1
	place(board, Knight, White, Position{X: 5, Y: 7}) // f1

	candidates := resolveCandidates(mustParse(t, "Nfd2"), board, White)
	require.Len(t, candidates, 1)
	assert.Equal(t, Position{X: 5, Y: 7}, candidates[0].From)
}

func TestResolveIgnoresBlockingPieces(t *testing.T) {
	// Black queen on d8 behind its own d7 pawn: d4 passes the rook-shaped
	// geometry even though the path is blocked in real chess.
	board := newBoard()

	candidates := resolveCandidates(mustParse(t, "Qd4"), board, Black)
	require.Len(t, candidates, 1)
	assert.Equal(t, Position{X: 3, Y: 0}, candidates[0].From)
}

func TestResolveQueenRejectsOffLineTarget(t *testing.T) {
	// d8 to h5 is dx=4 dy=3: neither diagonal nor axis.
	board := newBoard()

	candidates := resolveCandidates(mustParse(t, "Qh5"), board, Black)
	assert.Empty(t, candidates)
}

func TestResolveCastleAlwaysOneCandidate(t *testing.T) {
	board := emptyBoard() // no king, no rook anywhere

	candidates := resolveCandidates(mustParse(t, "O-O"), board, White)
	require.Len(t, candidates, 1)
	assert.Equal(t, Candidate{From: Position{X: 4, Y: 7}, To: Position{X: 6, Y: 7}, IsCastle: true}, candidates[0])

	candidates = resolveCandidates(mustParse(t, "O-O-O"), board, Black)
	require.Len(t, candidates, 1)
	assert.Equal(t, Candidate{From: Position{X: 4, Y: 0}, To: Position{X: 2, Y: 0}, IsCastle: true}, candidates[0])
}

func TestResolveExcludesWrongColorAndType(t *testing.T) {
	board := emptyBoard()
	place(board, Rook, Black, Position{X: 0, Y: 0})   // a8 black rook
	place(board, Bishop, White, Position{X: 0, Y: 7}) // a1 white bishop

	candidates := resolveCandidates(mustParse(t, "Ra4"), board, White)
	assert.Empty(t, candidates)
}

func TestResolveExcludesOwnSquare(t *testing.T) {
	board := emptyBoard()
	place(board, Rook, White, Position{X: 0, Y: 4}) // a4

	candidates := resolveCandidates(mustParse(t, "Ra4"), board, White)
	assert.Empty(t, candidates)
}
