package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/dto"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
)

type ProfileController struct {
	svc       *market.Service
	validator *validator.Validate
}

func NewProfileController(svc *market.Service) *ProfileController {
	return &ProfileController{
		svc:       svc,
		validator: validator.New(),
	}
}

// GetMyProfile godoc
//
//	@Summary		Current user's profile
//	@Tags			Profiles
//	@Produce		json
//	@Success		200	{object}	types.Response{data=dto.ProfileResponse}
//	@Failure		404	{object}	types.Response	"No profile yet"
//	@Security		BearerAuth
//	@Router			/v1/profile [get]
func (pc *ProfileController) GetMyProfile(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}
	return pc.respondProfile(c, user.ID)
}

// GetUserProfile godoc
//
//	@Summary		Another user's profile with rating stats
//	@Tags			Profiles
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	types.Response{data=dto.ProfileResponse}
//	@Failure		404	{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/profile [get]
func (pc *ProfileController) GetUserProfile(c *fiber.Ctx) error {
	return pc.respondProfile(c, c.Params("id"))
}

func (pc *ProfileController) respondProfile(c *fiber.Ctx, userID string) error {
	view, err := pc.svc.Profile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ToProfileResponse(*view))
}

// UpdateProfile godoc
//
//	@Summary		Create or update the current user's profile
//	@Description	profilePhoto may be a URL (kept as is), a data URL or raw base64 (uploaded to profile-photos).
//	@Tags			Profiles
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.UpdateProfileRequest	true	"Profile"
//	@Success		200		{object}	types.Response{data=dto.ProfileResponse}
//	@Failure		400		{object}	types.Response
//	@Failure		502		{object}	types.Response	"Photo upload failed"
//	@Security		BearerAuth
//	@Router			/v1/profile [put]
func (pc *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.validator.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := pc.svc.UpsertProfile(c.UserContext(), user, req.ToInput()); err != nil {
		return respondError(c, err)
	}
	return pc.respondProfile(c, user.ID)
}

func InitProfileRoutes(router fiber.Router, svc *market.Service) {
	profileController := NewProfileController(svc)

	router.Get("/profile", middlewares.Auth, profileController.GetMyProfile)
	router.Put("/profile", middlewares.Auth, profileController.UpdateProfile)
	router.Get("/users/:id/profile", middlewares.Auth, profileController.GetUserProfile)
}
