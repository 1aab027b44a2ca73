package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/dto"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
)

type RatingController struct {
	svc *market.Service
}

func NewRatingController(svc *market.Service) *RatingController {
	return &RatingController{svc: svc}
}

// GetRatingStats godoc
//
//	@Summary		Rating summary for a user
//	@Description	Count and averages over all ratings the user received. Users without ratings get zeros.
//	@Tags			Ratings
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	types.Response{data=types.UserRatingStats}
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/rating-stats [get]
func (rc *RatingController) GetRatingStats(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, rc.svc.RatingStats(c.UserContext(), c.Params("id")))
}

// GetRatingStatsBatch godoc
//
//	@Summary		Rating summaries for several users
//	@Tags			Ratings
//	@Produce		json
//	@Param			users	query		string	true	"Comma separated user IDs"
//	@Success		200		{object}	types.Response{data=map[string]types.UserRatingStats}
//	@Failure		400		{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/rating-stats [get]
func (rc *RatingController) GetRatingStatsBatch(c *fiber.Ctx) error {
	var ids []string
	for _, id := range strings.Split(c.Query("users"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return fail(c, fiber.StatusBadRequest, "users query parameter is required")
	}
	return ok(c, fiber.StatusOK, rc.svc.RatingStatsFor(c.UserContext(), ids))
}

// GetUserRatings godoc
//
//	@Summary		Ratings a user received
//	@Tags			Ratings
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	types.Response{data=[]dto.RatingResponse}
//	@Failure		502	{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/ratings [get]
func (rc *RatingController) GetUserRatings(c *fiber.Ctx) error {
	ratings, err := rc.svc.RatingsFor(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ToRatingResponses(ratings))
}

func InitRatingRoutes(router fiber.Router, svc *market.Service) {
	ratingController := NewRatingController(svc)

	router.Get("/rating-stats", middlewares.Auth, ratingController.GetRatingStatsBatch)
	router.Get("/users/:id/rating-stats", middlewares.Auth, ratingController.GetRatingStats)
	router.Get("/users/:id/ratings", middlewares.Auth, ratingController.GetUserRatings)
}
