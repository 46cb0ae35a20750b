package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/api/routes"
	"github.com/travigo/etastation/pkg/board"
	"github.com/travigo/etastation/pkg/operators"
)

func NewApp(registry *operators.Registry, departureBoard *board.Board, logger zerolog.Logger) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger(logger))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.BoardRouter(group.Group("/board"), departureBoard)
	routes.OperatorsRouter(group.Group("/operators"), registry)

	return webApp
}

func SetupServer(listen string, registry *operators.Registry, departureBoard *board.Board, logger zerolog.Logger) error {
	logger.Info().Str("listen", listen).Msg("Starting web api")

	return NewApp(registry, departureBoard, logger).Listen(listen)
}
