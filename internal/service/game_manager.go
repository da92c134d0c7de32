package service

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/2of/ChessLLMSite/internal/model"
)

var ErrGameNotFound = errors.New("game not found")

// OpponentName is the seat label for the text-generating opponent.
const OpponentName = "llm-opponent"

// GameManager owns the live games. Nothing below it is shared: each game
// serializes its own moves, so the manager only guards the map.
type GameManager struct {
	games map[string]*model.Game
	clock time.Duration
	mu    sync.RWMutex
}

func NewGameManager(clock time.Duration) *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
		clock: clock,
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.New("game already exists")
	}

	gm.games[gameID] = model.NewGame(gameID, gm.clock)
	return nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.games, gameID)
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

// AddPlayerToGame seats the human player and gives the remaining seat to
// the automated opponent.
func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Color(""), err
	}

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return model.Color(""), err
	}
	game.SeatOpponent(OpponentName)
	return color, nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}
