package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	chess "github.com/corentings/chess/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/2of/ChessLLMSite/internal/ws"
)

var (
	// ErrUnparsableMove means the text matched no recognized move grammar.
	ErrUnparsableMove = errors.New("move text matches no recognized form")
	// ErrUnresolvableMove means the text parsed but no piece of the stated
	// type can plausibly reach the target.
	ErrUnresolvableMove = errors.New("no piece can reach the target square")
	// ErrMissingSourcePiece should be unreachable: the resolver guarantees
	// candidates start from occupied squares.
	ErrMissingSourcePiece = errors.New("no piece at candidate source square")
	// ErrOutOfRange is returned for a history index past the move log.
	ErrOutOfRange = errors.New("move index out of range")
)

const startCastling = "KQkq"

// GameConnections holds the websocket connections for a single game.
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Game owns one match against the text-generating opponent. The board grid,
// move log and snapshot history live here; the embedded chess/v2 game is
// the legality collaborator and is consulted first for every proposed move,
// but it never owns the state. After a forced move it is reloaded from the
// local position, or dropped entirely when the position is beyond it.
type Game struct {
	ID string
	mu sync.Mutex

	board     *BoardState
	toMove    Color
	castling  string    // FEN castling-rights field, kept verbatim
	enPassant *Position // en-passant target square, nil when none
	halfMove  int
	fullMove  int

	referee *chess.Game

	records []MoveRecord
	history []Grid // history[i] is the position after records[:i]

	players     Players
	clockTime   time.Duration
	whiteClock  *Clock
	blackClock  *Clock
	connections *GameConnections
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

type CapturedPieces struct {
	White []PieceType `json:"white"`
	Black []PieceType `json:"black"`
}

// GameState is the client-facing snapshot broadcast after every change.
type GameState struct {
	Board          Grid           `json:"board"`
	ToMove         Color          `json:"toMove"`
	MoveHistory    []MoveRecord   `json:"moveHistory"`
	LastMove       *MoveRecord    `json:"lastMove"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	FEN            string         `json:"fen"`
	Players        Players        `json:"players"`
}

func NewGame(id string, clock time.Duration) *Game {
	g := &Game{
		ID:          id,
		connections: NewGameConnections(),
		clockTime:   clock,
	}
	g.resetLocked()
	return g
}

// resetLocked reinitializes to the starting position and discards all
// history. Callers hold g.mu (or own the game exclusively, as NewGame does).
func (g *Game) resetLocked() {
	g.board = newBoard()
	g.toMove = White
	g.castling = startCastling
	g.enPassant = nil
	g.halfMove = 0
	g.fullMove = 1
	g.referee = chess.NewGame()
	g.records = nil
	g.history = []Grid{g.board.grid()}
	g.whiteClock = NewClock(g.clockTime)
	g.blackClock = NewClock(g.clockTime)
}

// Reset discards all history and reinitializes to the starting position.
func (g *Game) Reset() {
	g.mu.Lock()
	g.resetLocked()
	state := g.stateLocked()
	g.mu.Unlock()

	go g.connections.broadcast(state)
}

// ForceApply interprets one proposed move text and applies it. The legality
// collaborator gets the first attempt; if it rejects the text, the forcing
// pipeline runs: parse to an intent, resolve plausible origins, force the
// first candidate onto the board. A move is either fully applied or nothing
// changes. The returned IsIllegal flag tells the two outcomes apart.
func (g *Game) ForceApply(text string) (*MoveResult, error) {
	g.mu.Lock()
	result, err := g.forceApplyLocked(text)
	if err != nil {
		g.mu.Unlock()
		return nil, err
	}

	g.swapClocks(result.Move.Color)
	state := g.stateLocked()
	g.mu.Unlock()

	go g.connections.broadcast(state)
	return result, nil
}

func (g *Game) forceApplyLocked(text string) (*MoveResult, error) {
	text = strings.TrimSpace(text)

	if record, ok := g.tryLegal(text); ok {
		return &MoveResult{Move: record, IsIllegal: false}, nil
	}

	intent, err := ParseMoveText(text)
	if err != nil {
		return nil, err
	}

	candidates := resolveCandidates(intent, g.board, g.toMove)
	if len(candidates) == 0 {
		return nil, ErrUnresolvableMove
	}

	// First scan-order candidate wins; there is no backtracking.
	record, err := g.forceMove(candidates[0], intent.Promotion, text)
	if err != nil {
		return nil, err
	}
	return &MoveResult{Move: record, IsIllegal: true}, nil
}

// tryLegal asks the collaborator to apply the text as a strictly legal
// move. On success the move is mirrored onto the locally owned board and
// the bookkeeping fields are taken from the collaborator's serialization.
func (g *Game) tryLegal(text string) (MoveRecord, bool) {
	if g.referee == nil {
		return MoveRecord{}, false
	}

	pos := g.referee.Position()
	move, err := chess.AlgebraicNotation{}.Decode(pos, text)
	if err != nil {
		return MoveRecord{}, false
	}

	from := positionFromSquare(move.S1())
	piece := g.board.at(from)
	if piece == nil {
		// Local board and collaborator disagree; treat as not legal.
		return MoveRecord{}, false
	}

	if err := g.referee.Move(move, nil); err != nil {
		return MoveRecord{}, false
	}

	san := chess.AlgebraicNotation{}.Encode(pos, move)
	return g.applyLegal(move, piece, san, text), true
}

// applyLegal is the legal-path mutator: it replays a collaborator-approved
// move onto the local grid and mirrors castling rights, en-passant target
// and the half-move clock from the collaborator's FEN.
func (g *Game) applyLegal(move *chess.Move, piece *Piece, san, text string) MoveRecord {
	from := positionFromSquare(move.S1())
	to := positionFromSquare(move.S2())

	var captured PieceType
	if target := g.board.at(to); target != nil {
		captured = target.Type
	}
	if move.HasTag(chess.EnPassant) {
		capturedSquare := Position{X: to.X, Y: from.Y}
		if p := g.board.at(capturedSquare); p != nil {
			captured = p.Type
			g.board.set(capturedSquare, nil)
		}
	}

	g.board.set(from, nil)
	moved := *piece
	promotion := pieceTypeFromChess(move.Promo())
	if promotion != "" {
		moved.Type = promotion
	}
	moved.HasMoved = true
	g.board.set(to, &moved)

	if move.HasTag(chess.KingSideCastle) {
		g.moveRookForCastle(from.Y, 7, 5)
	}
	if move.HasTag(chess.QueenSideCastle) {
		g.moveRookForCastle(from.Y, 0, 3)
	}

	fields := strings.Fields(g.referee.FEN())
	if len(fields) == 6 {
		g.castling = fields[2]
		g.enPassant = positionFromNotation(fields[3])
		if n, err := strconv.Atoi(fields[4]); err == nil {
			g.halfMove = n
		}
	}

	mover := g.toMove
	g.toMove = mover.Opposite()
	if mover == Black {
		g.fullMove++
	}

	record := MoveRecord{
		Index:     len(g.records),
		Color:     mover,
		From:      from,
		To:        to,
		Piece:     piece.Type,
		Captured:  captured,
		Promotion: promotion,
		San:       san,
		Text:      text,
		IsForced:  false,
	}
	g.appendMove(record)
	return record
}

func (g *Game) moveRookForCastle(y, homeX, postX int) {
	rook := g.board.Board[y][homeX]
	g.board.Board[y][homeX] = nil
	g.board.Board[y][postX] = rook
	if rook != nil {
		rook.Position = Position{X: postX, Y: y}
		rook.HasMoved = true
	}
}

// appendMove commits one move: record and snapshot land together, so
// len(history) == len(records)+1 holds after every successful call.
func (g *Game) appendMove(record MoveRecord) {
	g.records = append(g.records, record)
	g.history = append(g.history, g.board.grid())
}

// reloadReferee rebuilds the collaborator from the locally owned position
// after a forced move. Positions the collaborator cannot represent, such as
// a board with a captured king, drop it for the rest of the game and every
// later move goes through the forcing pipeline.
func (g *Game) reloadReferee() {
	if !g.board.hasKing(White) || !g.board.hasKing(Black) {
		g.referee = nil
		return
	}
	option, err := chess.FEN(g.fenLocked())
	if err != nil {
		g.referee = nil
		return
	}
	g.referee = chess.NewGame(option)
}

func (g *Game) fenLocked() string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		empty := 0
		for x := 0; x < 8; x++ {
			piece := g.board.Board[y][x]
			if piece == nil {
				empty++
				continue
			}
			if empty != 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.code())
		}
		if empty != 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y != 7 {
			sb.WriteRune('/')
		}
	}

	turn := "w"
	if g.toMove == Black {
		turn = "b"
	}
	castling := g.castling
	if castling == "" {
		castling = "-"
	}
	enPassant := "-"
	if g.enPassant != nil {
		enPassant = g.enPassant.getSquareNotation()
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", turn, castling, enPassant, g.halfMove, g.fullMove)
	return sb.String()
}

// FEN serializes the full locally owned state.
func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fenLocked()
}

// CurrentBoard returns the live position as a grid of piece codes.
func (g *Game) CurrentBoard() Grid {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.grid()
}

// StateAtMove returns the snapshot taken immediately after the n-th
// successful move; n=0 is the starting position.
func (g *Game) StateAtMove(n int) (Grid, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < 0 || n >= len(g.history) {
		return Grid{}, ErrOutOfRange
	}
	return g.history[n], nil
}

// DetailedMoves returns the ordered move log.
func (g *Game) DetailedMoves() []MoveRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	moves := make([]MoveRecord, len(g.records))
	copy(moves, g.records)
	return moves
}

// Export returns the move texts exactly as they were submitted. Replaying
// them through ForceApply on a fresh game reproduces the same move
// sequence; forced moves replay as forced moves.
func (g *Game) Export() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	texts := make([]string, len(g.records))
	for i, record := range g.records {
		texts[i] = record.Text
	}
	return texts
}

// Replay applies an exported move list on top of a reset game.
func (g *Game) Replay(texts []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.resetLocked()
	for i, text := range texts {
		if _, err := g.forceApplyLocked(text); err != nil {
			return fmt.Errorf("replay move %d %q: %w", i+1, text, err)
		}
	}
	return nil
}

// LegalMoves enumerates the collaborator's legal moves for the current
// position. After a forced move that the collaborator cannot represent the
// enumeration is empty.
func (g *Game) LegalMoves() []LegalMove {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.referee == nil {
		return nil
	}
	valid := g.referee.ValidMoves()
	moves := make([]LegalMove, 0, len(valid))
	for i := range valid {
		moves = append(moves, LegalMove{
			From:      positionFromSquare(valid[i].S1()),
			To:        positionFromSquare(valid[i].S2()),
			Promotion: pieceTypeFromChess(valid[i].Promo()),
		})
	}
	return moves
}

// PieceAt reports the piece on a square, or nil for an empty square.
func (g *Game) PieceAt(pos Position) *Piece {
	g.mu.Lock()
	defer g.mu.Unlock()
	piece := g.board.at(pos)
	if piece == nil {
		return nil
	}
	copied := *piece
	return &copied
}

// ToMove reports the side to move.
func (g *Game) ToMove() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Game) stateLocked() GameState {
	moves := make([]MoveRecord, len(g.records))
	copy(moves, g.records)

	state := GameState{
		Board:          g.board.grid(),
		ToMove:         g.toMove,
		MoveHistory:    moves,
		CapturedPieces: capturedFromRecords(g.records),
		FEN:            g.fenLocked(),
		Players:        g.players,
	}
	state.Players.White.TimeLeft = int(g.whiteClock.GetTimeLeft().Milliseconds() / 100)
	state.Players.Black.TimeLeft = int(g.blackClock.GetTimeLeft().Milliseconds() / 100)
	if len(moves) > 0 {
		state.LastMove = &moves[len(moves)-1]
	}
	return state
}

func capturedFromRecords(records []MoveRecord) CapturedPieces {
	captured := CapturedPieces{
		White: make([]PieceType, 0),
		Black: make([]PieceType, 0),
	}
	for _, record := range records {
		if record.Captured == "" {
			continue
		}
		// The captured piece belonged to the mover's opponent.
		if record.Color == White {
			captured.Black = append(captured.Black, record.Captured)
		} else {
			captured.White = append(captured.White, record.Captured)
		}
	}
	return captured
}

func (g *Game) swapClocks(mover Color) {
	if mover == White {
		g.whiteClock.Stop()
		g.blackClock.Start()
	} else {
		g.blackClock.Stop()
		g.whiteClock.Start()
	}
}

// AddPlayer seats a player, white first. The second seat normally belongs
// to the text-generating opponent via SeatOpponent.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: White}
		return White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: Black}
		return Black, nil
	}
	return "", errors.New("game is full")
}

// SeatOpponent claims the first empty seat for the automated opponent.
func (g *Game) SeatOpponent(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: name, Color: White, IsBot: true}
		return
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: name, Color: Black, IsBot: true}
	}
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players.White.ID == playerID && playerID != "" ||
		g.players.Black.ID == playerID && playerID != ""
}

func (g *Game) CanSpectate() bool {
	return true
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	go g.connections.broadcast(g.GetState())
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	delete(g.connections.connections, playerID)
}

func (gc *GameConnections) broadcast(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		return
	}
	message := ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: json.RawMessage(payload),
	}

	gc.mu.Lock()
	defer gc.mu.Unlock()
	for playerID, conn := range gc.connections {
		if err := conn.WriteJSON(message); err != nil {
			delete(gc.connections, playerID)
		}
	}
}

func positionFromSquare(sq chess.Square) Position {
	return Position{X: int(sq) % 8, Y: 7 - int(sq)/8}
}

func positionFromNotation(s string) *Position {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return nil
	}
	return &Position{X: int(s[0] - 'a'), Y: 7 - int(s[1]-'1')}
}

func pieceTypeFromChess(pt chess.PieceType) PieceType {
	switch pt {
	case chess.King:
		return King
	case chess.Queen:
		return Queen
	case chess.Rook:
		return Rook
	case chess.Bishop:
		return Bishop
	case chess.Knight:
		return Knight
	case chess.Pawn:
		return Pawn
	}
	return ""
}
