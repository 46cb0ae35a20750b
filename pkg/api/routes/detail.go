package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

// reduce marshals data down to the groups asked for with ?detail=, basic by
// default and basic plus detailed for full
func reduce(c *fiber.Ctx, data interface{}) error {
	groups := []string{"basic"}
	if c.Query("detail", "basic") == "full" {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, data)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce response",
		})
	}

	return c.JSON(reduced)
}
