package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/market"
)

func Auth(c *fiber.Ctx) error {
	return JWTMiddleware(c)
}

// CurrentUser returns the actor resolved by Auth. ok is false on routes that
// did not run it.
func CurrentUser(c *fiber.Ctx) (market.Actor, bool) {
	id, _ := c.Locals("user_id").(string)
	if id == "" {
		return market.Actor{}, false
	}
	email, _ := c.Locals("email").(string)
	return market.Actor{ID: id, Name: email}, true
}
