package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame() *Game {
	return NewGame("test", time.Minute)
}

func TestLegalMoveGoesThroughCollaborator(t *testing.T) {
	g := newTestGame()

	result, err := g.ForceApply("e4")
	require.NoError(t, err)
	assert.False(t, result.IsIllegal)
	assert.Equal(t, "e4", result.Move.San)
	assert.Equal(t, Pawn, result.Move.Piece)
	assert.False(t, result.Move.IsForced)
	assert.Equal(t, Black, g.ToMove())

	grid := g.CurrentBoard()
	assert.Equal(t, "P", grid[4][4], "pawn on e4")
	assert.Equal(t, "", grid[6][4], "e2 vacated")
}

func TestHallucinationScenario(t *testing.T) {
	g := newTestGame()

	// White opens legally.
	result, err := g.ForceApply("e4")
	require.NoError(t, err)
	assert.False(t, result.IsIllegal)

	// Qh5 is geometrically impossible from d8: rejected, nothing changes.
	before := g.CurrentBoard()
	_, err = g.ForceApply("Qh5")
	assert.ErrorIs(t, err, ErrUnresolvableMove)
	assert.Equal(t, before, g.CurrentBoard())
	assert.Equal(t, Black, g.ToMove())

	// Qd4 is blocked by black's own d7 pawn, so the collaborator refuses
	// it, but it passes the rook-shaped geometry and gets forced through.
	result, err = g.ForceApply("Qd4")
	require.NoError(t, err)
	assert.True(t, result.IsIllegal)
	assert.True(t, result.Move.IsForced)
	assert.Equal(t, Position{X: 3, Y: 0}, result.Move.From)

	grid := g.CurrentBoard()
	assert.Equal(t, "q", grid[4][3], "queen forced through the pawn onto d4")
	assert.Equal(t, "p", grid[1][3], "d7 pawn untouched")
	assert.Equal(t, White, g.ToMove())
}

func TestCollaboratorStaysUsableAfterForcedMove(t *testing.T) {
	g := newTestGame()

	_, err := g.ForceApply("e4")
	require.NoError(t, err)
	_, err = g.ForceApply("Qd4") // forced
	require.NoError(t, err)

	// The collaborator was reloaded from the forced position, so a normal
	// legal move still takes the legal path.
	result, err := g.ForceApply("Nf3")
	require.NoError(t, err)
	assert.False(t, result.IsIllegal)
	assert.NotEmpty(t, g.LegalMoves())
}

func TestLegalEnPassantMirroredOntoBoard(t *testing.T) {
	g := newTestGame()
	for _, text := range []string{"e4", "Nf6", "e5", "d5"} {
		result, err := g.ForceApply(text)
		require.NoError(t, err, "move %s", text)
		assert.False(t, result.IsIllegal, "move %s", text)
	}

	result, err := g.ForceApply("exd6")
	require.NoError(t, err)
	assert.False(t, result.IsIllegal)
	assert.Equal(t, Pawn, result.Move.Captured)

	grid := g.CurrentBoard()
	assert.Equal(t, "P", grid[2][3], "white pawn on d6")
	assert.Equal(t, "", grid[3][3], "captured d5 pawn removed")
	assert.Equal(t, "", grid[3][4], "e5 vacated")
}

func TestLegalCastleMirroredOntoBoard(t *testing.T) {
	g := newTestGame()
	for _, text := range []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O"} {
		result, err := g.ForceApply(text)
		require.NoError(t, err, "move %s", text)
		assert.False(t, result.IsIllegal, "move %s", text)
	}

	grid := g.CurrentBoard()
	assert.Equal(t, "K", grid[7][6], "king on g1")
	assert.Equal(t, "R", grid[7][5], "rook on f1")
	assert.Equal(t, "", grid[7][7], "h1 vacated")

	moves := g.DetailedMoves()
	assert.Equal(t, "O-O", moves[len(moves)-1].San)
}

func TestHistoryInvariant(t *testing.T) {
	g := newTestGame()

	texts := []string{"e4", "banana", "e5", "Qd4", "Qh1"}
	successes := 0
	for _, text := range texts {
		if _, err := g.ForceApply(text); err == nil {
			successes++
		}
	}

	assert.Equal(t, successes+1, len(g.history))
	assert.Equal(t, successes, len(g.records))

	// Each snapshot is the position immediately after its move.
	afterFirst, err := g.StateAtMove(1)
	require.NoError(t, err)
	assert.Equal(t, "P", afterFirst[4][4])

	initial, err := g.StateAtMove(0)
	require.NoError(t, err)
	assert.Equal(t, newBoard().grid(), initial)

	_, err = g.StateAtMove(successes + 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = g.StateAtMove(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestExportReplayRoundTrip(t *testing.T) {
	g := newTestGame()
	for _, text := range []string{"e4", "e5", "Qd4", "Qh4"} {
		_, err := g.ForceApply(text)
		require.NoError(t, err, "move %s", text)
	}

	exported := g.Export()
	assert.Equal(t, []string{"e4", "e5", "Qd4", "Qh4"}, exported)

	replayed := newTestGame()
	require.NoError(t, replayed.Replay(exported))

	assert.Equal(t, len(g.history), len(replayed.history))
	assert.Equal(t, g.CurrentBoard(), replayed.CurrentBoard())

	original := g.DetailedMoves()
	copied := replayed.DetailedMoves()
	require.Equal(t, len(original), len(copied))
	for i := range original {
		assert.Equal(t, original[i].San, copied[i].San)
		assert.Equal(t, original[i].IsForced, copied[i].IsForced)
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	g := newTestGame()
	_, err := g.ForceApply("e4")
	require.NoError(t, err)
	_, err = g.ForceApply("Qd4")
	require.NoError(t, err)

	g.Reset()

	assert.Equal(t, newBoard().grid(), g.CurrentBoard())
	assert.Equal(t, White, g.ToMove())
	assert.Empty(t, g.DetailedMoves())
	assert.Len(t, g.history, 1)
	assert.NotEmpty(t, g.LegalMoves(), "collaborator restored after reset")
}

func TestResetRestoresClocks(t *testing.T) {
	g := newTestGame()
	_, err := g.ForceApply("e4")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	g.Reset()

	assert.Equal(t, time.Minute, g.whiteClock.GetTimeLeft())
	assert.Equal(t, time.Minute, g.blackClock.GetTimeLeft())
	assert.False(t, g.blackClock.isRunning, "no clock runs before the next move")
}

func TestFENTracksLocalState(t *testing.T) {
	g := newTestGame()
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", g.FEN())

	_, err := g.ForceApply("e4")
	require.NoError(t, err)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", g.FEN())

	// Forced moves clear the en-passant target and advance the counter
	// after black's ply.
	_, err = g.ForceApply("Qd4")
	require.NoError(t, err)
	assert.Equal(t, "rnb1kbnr/pppppppp/8/8/3qP3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", g.FEN())
}

func TestPieceAtAndSeating(t *testing.T) {
	g := newTestGame()

	piece := g.PieceAt(Position{X: 4, Y: 7})
	require.NotNil(t, piece)
	assert.Equal(t, King, piece.Type)
	assert.Equal(t, White, piece.Color)
	assert.Nil(t, g.PieceAt(Position{X: 4, Y: 4}))

	color, err := g.AddPlayer("human")
	require.NoError(t, err)
	assert.Equal(t, White, color)
	g.SeatOpponent("llm-opponent")

	assert.True(t, g.IsPlayerInGame("human"))
	assert.True(t, g.IsPlayerInGame("llm-opponent"))
	assert.False(t, g.IsPlayerInGame("someone else"))

	_, err = g.AddPlayer("third wheel")
	assert.Error(t, err)
}
