package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/board"
	"github.com/mcmanyika/Musika/dto"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
)

type YieldController struct {
	svc       *market.Service
	board     *board.Board
	validator *validator.Validate
}

func NewYieldController(svc *market.Service, b *board.Board) *YieldController {
	return &YieldController{
		svc:       svc,
		board:     b,
		validator: validator.New(),
	}
}

// GetYields godoc
//
//	@Summary		Market board yields
//	@Description	Expected harvests, newest first, each with its offer count and highest offer price.
//	@Tags			Yields
//	@Produce		json
//	@Param			q	query		string	false	"Commodity or producer name"
//	@Success		200	{object}	types.Response{data=[]dto.YieldSummaryResponse}
//	@Security		BearerAuth
//	@Router			/v1/yields [get]
func (yc *YieldController) GetYields(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, dto.ToYieldSummaries(yc.board.Yields(c.Query("q"))))
}

// CreateYield godoc
//
//	@Summary		Post an expected yield
//	@Description	The commodity must exist; the expected date must be in the future. productImage may be a URL, a data URL or raw base64.
//	@Tags			Yields
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.CreateYieldRequest	true	"Yield"
//	@Success		201		{object}	types.Response{data=dto.YieldResponse}
//	@Failure		400		{object}	types.Response	"Invalid input or unknown commodity"
//	@Security		BearerAuth
//	@Router			/v1/yields [post]
func (yc *YieldController) CreateYield(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	var req dto.CreateYieldRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := yc.validator.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	in, err := req.ToInput()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	y, err := yc.svc.PostYield(c.UserContext(), user, in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, dto.ToYieldResponse(*y))
}

// UpdateYield godoc
//
//	@Summary		Edit a yield
//	@Description	Only the producer who posted the yield may edit it.
//	@Tags			Yields
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Yield ID"
//	@Param			body	body		dto.CreateYieldRequest	true	"Yield"
//	@Success		200		{object}	types.Response{data=dto.YieldResponse}
//	@Failure		400		{object}	types.Response
//	@Failure		403		{object}	types.Response
//	@Failure		404		{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/yields/{id} [put]
func (yc *YieldController) UpdateYield(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	var req dto.CreateYieldRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := yc.validator.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	in, err := req.ToInput()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	y, err := yc.svc.EditYield(c.UserContext(), user, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ToYieldResponse(*y))
}

// GetYieldOffers godoc
//
//	@Summary		Offers on a yield
//	@Tags			Yields
//	@Produce		json
//	@Param			id	path		string	true	"Yield ID"
//	@Success		200	{object}	types.Response{data=dto.YieldOffersResponse}
//	@Failure		404	{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/yields/{id}/offers [get]
func (yc *YieldController) GetYieldOffers(c *fiber.Ctx) error {
	offers, err := yc.svc.OffersForYield(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ToYieldOffersResponse(*offers))
}

// CreateOffer godoc
//
//	@Summary		Make an offer on a yield
//	@Description	Quantity may not exceed the yield's expected quantity. Producers cannot make offers on their own yields.
//	@Tags			Yields
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Yield ID"
//	@Param			body	body		dto.CreateOfferRequest	true	"Offer"
//	@Success		201		{object}	types.Response{data=dto.OrderResponse}
//	@Failure		400		{object}	types.Response
//	@Failure		403		{object}	types.Response
//	@Failure		404		{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/yields/{id}/offers [post]
func (yc *YieldController) CreateOffer(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	var req dto.CreateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := yc.validator.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	offer, err := yc.svc.PostOffer(c.UserContext(), user, market.OfferInput{
		YieldID:  c.Params("id"),
		Quantity: req.Quantity,
		Price:    req.OfferPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, dto.ToOrderResponse(*offer))
}

func InitYieldRoutes(router fiber.Router, svc *market.Service, b *board.Board) {
	yieldController := NewYieldController(svc, b)

	router.Get("/yields", middlewares.Auth, yieldController.GetYields)
	router.Post("/yields", middlewares.Auth, yieldController.CreateYield)
	router.Put("/yields/:id", middlewares.Auth, yieldController.UpdateYield)
	router.Get("/yields/:id/offers", middlewares.Auth, yieldController.GetYieldOffers)
	router.Post("/yields/:id/offers", middlewares.Auth, yieldController.CreateOffer)
}
