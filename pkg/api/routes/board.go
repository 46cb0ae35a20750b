package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/etastation/pkg/board"
)

func BoardRouter(router fiber.Router, departureBoard *board.Board) {
	router.Get("/", func(c *fiber.Ctx) error {
		rows := departureBoard.Refresh(c.UserContext())

		return reduce(c, rows)
	})
}
