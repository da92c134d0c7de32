package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/spf13/cobra"

	"github.com/2of/ChessLLMSite/internal/config"
	"github.com/2of/ChessLLMSite/internal/controller"
	"github.com/2of/ChessLLMSite/internal/middleware"
	"github.com/2of/ChessLLMSite/internal/service"
)

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "ChessLLMSite backend: chess games against a text-generating opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "path to yaml config file")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(time.Duration(cfg.ClockSeconds) * time.Second)
	gameService := service.NewGameService(gameManager)

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Use("/ws/game/:gameId", middleware.WebSocketUpgrade())
	app.Get("/ws/game/:gameId", websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         []string{cfg.AllowOrigins},
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	// Game routes
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/import", gameController.ImportGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/reset", gameController.ResetGame)
	gameRoutes.Get("/:gameId/moves", gameController.GetMoves)
	gameRoutes.Get("/:gameId/state/:index", gameController.GetStateAtMove)
	gameRoutes.Get("/:gameId/legal", gameController.GetLegalMoves)
	gameRoutes.Get("/:gameId/export", gameController.ExportGame)

	return app.Listen(fmt.Sprintf(":%d", cfg.Port))
}
