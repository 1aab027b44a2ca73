package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/types"
)

func errorStatus(err error) int {
	var (
		validation *market.ValidationError
		notFound   *market.NotFoundError
		auth       *market.AuthorizationError
		conflict   *market.ConflictError
		remote     *market.RemoteError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &auth):
		return fiber.StatusForbidden
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &conflict):
		return fiber.StatusConflict
	case errors.As(err, &remote):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(types.Response{
		Success: false,
		Error:   message,
	})
}

func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return fail(c, status, err.Error())
}

func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(types.Response{
		Success: true,
		Data:    data,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return fail(c, fiber.StatusUnauthorized, "No authenticated user")
}
