package routes

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/operators"
)

func OperatorsRouter(router fiber.Router, registry *operators.Registry) {
	handlers := operatorHandlers{registry: registry}

	router.Get("/", handlers.listOperators)
	router.Get("/:operator", handlers.getOperator)
	router.Get("/:operator/routes", handlers.listRoutes)
	router.Get("/:operator/routes/:route", handlers.listVariants)
	router.Get("/:operator/routes/:route/:direction/stops", handlers.listStops)
	router.Post("/:operator/rebuild", handlers.rebuild)
}

type operatorHandlers struct {
	registry *operators.Registry
}

func (h operatorHandlers) lookup(c *fiber.Ctx) (*operators.Operator, error) {
	operator, err := h.registry.Lookup(ctdf.OperatorID(c.Params("operator")))
	if errors.Is(err, operators.ErrUnknownOperator) {
		c.SendStatus(fiber.StatusNotFound)
		return nil, c.JSON(fiber.Map{
			"error": "Could not find Operator matching Operator Identifier",
		})
	}

	return operator, err
}

func (h operatorHandlers) listOperators(c *fiber.Ctx) error {
	listing := []ctdf.Operator{}
	for _, operator := range h.registry.List() {
		listing = append(listing, operator.Operator)
	}

	return reduce(c, listing)
}

func (h operatorHandlers) getOperator(c *fiber.Ctx) error {
	operator, err := h.lookup(c)
	if operator == nil {
		return err
	}

	return reduce(c, operator.Operator)
}

func (h operatorHandlers) listRoutes(c *fiber.Ctx) error {
	operator, err := h.lookup(c)
	if operator == nil {
		return err
	}

	return c.JSON(operator.Store.Routes(c.UserContext()))
}

func (h operatorHandlers) listVariants(c *fiber.Ctx) error {
	operator, err := h.lookup(c)
	if operator == nil {
		return err
	}

	return reduce(c, operator.Store.Variants(c.UserContext(), c.Params("route")))
}

func (h operatorHandlers) listStops(c *fiber.Ctx) error {
	operator, err := h.lookup(c)
	if operator == nil {
		return err
	}

	direction := ctdf.Direction(c.Params("direction"))
	if !direction.Valid() {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Unknown direction",
		})
	}

	serviceType := 0
	if value := c.Query("service_type"); value != "" {
		serviceType, err = strconv.Atoi(value)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "service_type must be a number",
			})
		}
	}

	key := ctdf.NewRouteKey(operator.Identifier, c.Params("route"), direction, serviceType)

	return reduce(c, operator.Store.Stops(c.UserContext(), key))
}

func (h operatorHandlers) rebuild(c *fiber.Ctx) error {
	operator, err := h.lookup(c)
	if operator == nil {
		return err
	}

	metadata, err := operator.Store.Rebuild(c.UserContext())
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"operator": operator.Identifier,
		"routes":   len(metadata),
	})
}
