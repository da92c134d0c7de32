package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

// code returns the FEN letter for the piece: uppercase for white,
// lowercase for black.
func (p *Piece) code() string {
	var letter byte
	switch p.Type {
	case King:
		letter = 'k'
	case Queen:
		letter = 'q'
	case Rook:
		letter = 'r'
	case Bishop:
		letter = 'b'
	case Knight:
		letter = 'n'
	case Pawn:
		letter = 'p'
	default:
		return ""
	}
	if p.Color == White {
		letter -= 32
	}
	return string(letter)
}

// Position is a board coordinate. X is the file (0 = a-file), Y is the
// row index from the top of the board, so Y 0 is rank 8 and Y 7 is rank 1.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+97)
}

// BoardState is the locally owned 8x8 grid. It is mutated only by the
// legal-path mirror and the force executor in game.go / force.go.
type BoardState struct {
	Board [][]*Piece `json:"board"`
}

func (b *BoardState) at(pos Position) *Piece {
	return b.Board[pos.Y][pos.X]
}

func (b *BoardState) set(pos Position, piece *Piece) {
	b.Board[pos.Y][pos.X] = piece
	if piece != nil {
		piece.Position = pos
	}
}

func (b *BoardState) hasKing(color Color) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := b.Board[y][x]
			if p != nil && p.Type == King && p.Color == color {
				return true
			}
		}
	}
	return false
}

// Grid is a plain snapshot of the board: FEN piece letters, "" for empty.
// Snapshots are value types, so appending one to the history never aliases
// the live board.
type Grid [8][8]string

func (b *BoardState) grid() Grid {
	var g Grid
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := b.Board[y][x]; p != nil {
				g[y][x] = p.code()
			}
		}
	}
	return g
}

func newBoard() *BoardState {
	board := &BoardState{}
	for i := 0; i < 8; i++ {
		board.Board = append(board.Board, make([]*Piece, 8))
	}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, pt := range backRank {
		board.Board[0][x] = &Piece{Type: pt, Color: Black, Position: Position{X: x, Y: 0}}
		board.Board[7][x] = &Piece{Type: pt, Color: White, Position: Position{X: x, Y: 7}}
	}
	for x := 0; x < 8; x++ {
		board.Board[1][x] = &Piece{Type: Pawn, Color: Black, Position: Position{X: x, Y: 1}}
		board.Board[6][x] = &Piece{Type: Pawn, Color: White, Position: Position{X: x, Y: 6}}
	}
	return board
}
