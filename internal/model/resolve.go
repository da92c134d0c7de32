package model

// resolveCandidates enumerates origin squares from which the intent's piece
// could plausibly reach the target. Plausibility is purely geometric: no
// path-blocking, check or pin analysis. Scan order is fixed, rank 8 down to
// rank 1 and file a to h, and downstream always takes the first candidate,
// so the order here decides which piece gets forced.
func resolveCandidates(intent MoveIntent, board *BoardState, mover Color) []Candidate {
	if intent.IsCastle {
		backRank := 0
		if mover == White {
			backRank = 7
		}
		toFile := 6
		if intent.CastleSide == CastleQueenSide {
			toFile = 2
		}
		// No check that the king or rook is actually home.
		return []Candidate{{
			From:     Position{X: 4, Y: backRank},
			To:       Position{X: toFile, Y: backRank},
			IsCastle: true,
		}}
	}

	var candidates []Candidate
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := board.Board[y][x]
			if piece == nil || piece.Color != mover || piece.Type != intent.Piece {
				continue
			}
			if intent.FileHint >= 0 && x != intent.FileHint {
				continue
			}
			if intent.RankHint >= 0 && y != intent.RankHint {
				continue
			}
			from := Position{X: x, Y: y}
			if from == intent.To {
				continue
			}
			if !plausibleReach(intent.Piece, from, intent.To) {
				continue
			}
			candidates = append(candidates, Candidate{From: from, To: intent.To})
		}
	}
	return candidates
}

// plausibleReach checks the move shape for the piece type and nothing else.
// The pawn rule is deliberately permissive: direction-agnostic, one or two
// ranks, with or without a file change.
func plausibleReach(piece PieceType, from, to Position) bool {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)

	switch piece {
	case Knight:
		return (dx == 1 && dy == 2) || (dx == 2 && dy == 1)
	case Bishop:
		return dx == dy
	case Rook:
		return dx == 0 || dy == 0
	case Queen:
		return dx == dy || dx == 0 || dy == 0
	case King:
		return dx <= 1 && dy <= 1
	case Pawn:
		return dx <= 1 && dy >= 1 && dy <= 2
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
