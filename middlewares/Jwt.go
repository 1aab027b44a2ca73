package middlewares

import (
	"encoding/base64"
	"errors"
	"fmt"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mcmanyika/Musika/config"
)

var jwtHandler fiber.Handler

// InitAuth builds the JWT middleware once: a local HS256 key in test mode,
// the auth provider's JWKS otherwise.
func InitAuth(cfg *config.Config) error {
	if cfg.JWTTestMode {
		key, err := decodeSigningKey(cfg.JWTSecret)
		if err != nil {
			return err
		}
		jwtHandler = jwtware.New(jwtware.Config{
			SigningKey:     jwtware.SigningKey{Key: key, JWTAlg: "HS256"},
			SuccessHandler: jwtSuccessHandler,
			ErrorHandler:   jwtErrorHandler,
		})
		return nil
	}

	if cfg.JWKSURL == "" {
		return errors.New("JWKS_URL is required outside JWT test mode")
	}
	jwtHandler = jwtware.New(jwtware.Config{
		SuccessHandler: jwtSuccessHandler,
		ErrorHandler:   jwtErrorHandler,
		JWKSetURLs:     []string{cfg.JWKSURL},
	})
	return nil
}

func JWTMiddleware(c *fiber.Ctx) error {
	if jwtHandler == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Authentication is not configured",
			"success": false,
		})
	}
	return jwtHandler(c)
}

func jwtSuccessHandler(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwtErrorHandler(c, errors.New("unexpected claims"))
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return jwtErrorHandler(c, errors.New("token has no subject"))
	}
	email, _ := claims["email"].(string)

	c.Locals("token", token.Raw)
	c.Locals("claims", claims)
	c.Locals("user_id", sub)
	c.Locals("email", email)

	return c.Next()
}

func jwtErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "Unauthorized - " + err.Error(),
		"success": false,
	})
}

func decodeSigningKey(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWT_SECRET: %w", err)
	}
	return key, nil
}
