package model

// forceMove applies a resolver candidate directly to the board, bypassing
// the legality collaborator. The caller must hold the game mutex. Nothing
// is written until the source piece has been read, so a failure commits no
// state; once the mutation starts it always completes.
//
// Auxiliary state is repaired afterward: side to move toggles, the
// full-move counter advances after black's ply, and any en-passant target
// is cleared. Castling rights are left untouched even when a forced move
// displaces a king or rook.
func (g *Game) forceMove(c Candidate, promotion PieceType, text string) (MoveRecord, error) {
	piece := g.board.at(c.From)
	if piece == nil {
		// The resolver only emits occupied origins; this is defensive.
		return MoveRecord{}, ErrMissingSourcePiece
	}

	var captured PieceType
	if target := g.board.at(c.To); target != nil {
		captured = target.Type
	}

	g.board.set(c.From, nil)
	moved := *piece
	if promotion != "" {
		moved.Type = promotion
	}
	moved.HasMoved = true
	g.board.set(c.To, &moved)

	// A king travelling exactly two files is treated as castling: whatever
	// sits on that rank's rook home square is relocated to the post-castle
	// square, rook or not, present or not.
	if piece.Type == King && abs(c.To.X-c.From.X) == 2 {
		homeX, postX := 7, 5
		if c.To.X < c.From.X {
			homeX, postX = 0, 3
		}
		hop := g.board.Board[c.From.Y][homeX]
		g.board.Board[c.From.Y][homeX] = nil
		g.board.Board[c.From.Y][postX] = hop
		if hop != nil {
			hop.Position = Position{X: postX, Y: c.From.Y}
			hop.HasMoved = true
		}
	}

	mover := g.toMove
	g.toMove = mover.Opposite()
	if mover == Black {
		g.fullMove++
	}
	g.enPassant = nil

	record := MoveRecord{
		Index:     len(g.records),
		Color:     mover,
		From:      c.From,
		To:        c.To,
		Piece:     piece.Type,
		Captured:  captured,
		Promotion: promotion,
		San:       forcedNotation(piece.Type, captured != "", c.To, promotion),
		Text:      text,
		IsForced:  true,
	}
	g.appendMove(record)
	g.reloadReferee()

	return record, nil
}

// forcedNotation rebuilds a SAN-looking string for display. It drops any
// disambiguation the input carried, so it is not guaranteed to re-parse to
// the same candidate.
func forcedNotation(piece PieceType, captured bool, to Position, promotion PieceType) string {
	notation := piece.getPieceNotation()
	if captured {
		notation += "x"
	}
	notation += to.getSquareNotation()
	if promotion != "" {
		notation += "=" + promotion.getPieceNotation()
	}
	return notation
}
