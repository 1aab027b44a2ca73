package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/board"
)

type HealthResponse struct {
	Status string `json:"status"`
	Yields int    `json:"yields"`
	Orders int    `json:"orders"`
	Bids   int    `json:"bids"`
}

// Health reports liveness and the size of the in-memory market board.
func Health(b *board.Board) fiber.Handler {
	return func(c *fiber.Ctx) error {
		yields, orders, bids := b.Counts()
		return c.Status(fiber.StatusOK).JSON(HealthResponse{Status: "ok", Yields: yields, Orders: orders, Bids: bids})
	}
}
