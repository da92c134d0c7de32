package model

type CastleSide string

const (
	CastleKingSide  CastleSide = "king"
	CastleQueenSide CastleSide = "queen"
)

// MoveIntent is the structured reading of an opponent's move text. It is
// produced by ParseMoveText and never mutated afterward. Hints are -1 when
// the text carried no disambiguation character.
type MoveIntent struct {
	Piece      PieceType
	FileHint   int // 0-7, -1 when absent
	RankHint   int // board Y, -1 when absent
	To         Position
	Promotion  PieceType // "" when absent
	IsCastle   bool
	CastleSide CastleSide
}

// Candidate is a geometrically plausible origin hypothesis for an intent.
type Candidate struct {
	From     Position
	To       Position
	IsCastle bool
}

// MoveRecord is the permanent log entry for one applied move, legal or
// forced. Records are immutable once appended. Text keeps the move exactly
// as it was submitted; San is the derived notation and, for forced moves,
// is display-only and not guaranteed to re-parse to the same move.
type MoveRecord struct {
	Index     int       `json:"index"`
	Color     Color     `json:"color"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Piece     PieceType `json:"piece"`
	Captured  PieceType `json:"captured,omitempty"`
	Promotion PieceType `json:"promotion,omitempty"`
	San       string    `json:"san"`
	Text      string    `json:"text"`
	IsForced  bool      `json:"isForced"`
}

// MoveResult is what ForceApply hands back for a successful application.
type MoveResult struct {
	Move      MoveRecord `json:"move"`
	IsIllegal bool       `json:"isIllegal"`
}

// LegalMove is one entry of the collaborator's legal-move enumeration.
type LegalMove struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// WSMove is the websocket move payload: the raw text proposed for the
// side to move.
type WSMove struct {
	Text string `json:"text"`
}
