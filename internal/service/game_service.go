package service

import (
	"fmt"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/2of/ChessLLMSite/internal/model"
)

// GameService is the application surface the controllers talk to.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// HandleMove runs one proposed move text through the game's forcing
// pipeline. The result says whether the move went through the legality
// collaborator or had to be forced.
func (gs *GameService) HandleMove(gameID string, text string) (*model.MoveResult, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.ForceApply(text)
}

func (gs *GameService) ResetGame(gameID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	game.Reset()
	return nil
}

func (gs *GameService) GetDetailedMoves(gameID string) ([]model.MoveRecord, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.DetailedMoves(), nil
}

func (gs *GameService) GetStateAtMove(gameID string, n int) (model.Grid, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Grid{}, err
	}
	return game.StateAtMove(n)
}

func (gs *GameService) GetLegalMoves(gameID string) ([]model.LegalMove, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(), nil
}

// ExportGame returns the played move texts in order, exactly as submitted.
func (gs *GameService) ExportGame(gameID string) ([]string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.Export(), nil
}

// ImportGame creates a fresh game and replays an exported move list into
// it. Forced moves replay as forced moves.
func (gs *GameService) ImportGame(texts []string) (string, error) {
	gameID, err := gs.CreateGame()
	if err != nil {
		return "", err
	}

	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	if err := game.Replay(texts); err != nil {
		gs.gameManager.RemoveGame(gameID)
		return "", fmt.Errorf("failed to import game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}
