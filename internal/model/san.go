package model

import (
	"regexp"
	"strings"
)

// moveTextRe matches the tolerated SAN-ish grammar after annotation glyphs
// are stripped: optional piece letter, optional file hint, optional rank
// hint, optional capture marker, mandatory target square, optional
// promotion letter.
var moveTextRe = regexp.MustCompile(`^([NBRQK]?)([a-h]?)([1-8]?)(x?)([a-h][1-8])([NBRQ]?)$`)

var annotationStripper = strings.NewReplacer("+", "", "#", "", "?", "", "!", "", "=", "")

// ParseMoveText interprets raw move text into a MoveIntent. It is pure: it
// looks at neither the board nor the side to move, and it does not care
// whether the move is legal. ErrUnparsableMove is returned when the text
// matches no recognized form.
func ParseMoveText(text string) (MoveIntent, error) {
	cleaned := annotationStripper.Replace(strings.TrimSpace(text))

	switch cleaned {
	case "O-O", "0-0":
		return MoveIntent{Piece: King, FileHint: -1, RankHint: -1, IsCastle: true, CastleSide: CastleKingSide}, nil
	case "O-O-O", "0-0-0":
		return MoveIntent{Piece: King, FileHint: -1, RankHint: -1, IsCastle: true, CastleSide: CastleQueenSide}, nil
	}

	m := moveTextRe.FindStringSubmatch(cleaned)
	if m == nil {
		return MoveIntent{}, ErrUnparsableMove
	}

	intent := MoveIntent{
		Piece:    pieceTypeFromLetter(m[1]),
		FileHint: -1,
		RankHint: -1,
		To: Position{
			X: int(m[5][0] - 'a'),
			Y: 7 - int(m[5][1]-'1'),
		},
	}
	if m[2] != "" {
		intent.FileHint = int(m[2][0] - 'a')
	}
	if m[3] != "" {
		intent.RankHint = 7 - int(m[3][0]-'1')
	}
	if m[6] != "" {
		intent.Promotion = pieceTypeFromLetter(m[6])
	}
	return intent, nil
}

func pieceTypeFromLetter(letter string) PieceType {
	switch letter {
	case "N":
		return Knight
	case "B":
		return Bishop
	case "R":
		return Rook
	case "Q":
		return Queen
	case "K":
		return King
	default:
		return Pawn
	}
}
