package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/board"
	"github.com/mcmanyika/Musika/dto"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
)

type OrderController struct {
	svc       *market.Service
	board     *board.Board
	validator *validator.Validate
}

func NewOrderController(svc *market.Service, b *board.Board) *OrderController {
	return &OrderController{
		svc:       svc,
		board:     b,
		validator: validator.New(),
	}
}

// GetOrders godoc
//
//	@Summary		Market board orders
//	@Description	General buyer orders, newest first, with bid count and lowest bid. Set offers=true to include offers on yields.
//	@Tags			Orders
//	@Produce		json
//	@Param			q		query		string	false	"Commodity, buyer or producer name"
//	@Param			offers	query		bool	false	"Include offers"
//	@Success		200		{object}	types.Response{data=[]dto.OrderSummaryResponse}
//	@Security		BearerAuth
//	@Router			/v1/orders [get]
func (oc *OrderController) GetOrders(c *fiber.Ctx) error {
	withOffers := c.QueryBool("offers", false)
	return ok(c, fiber.StatusOK, dto.ToOrderSummaries(oc.board.Orders(c.Query("q"), withOffers)))
}

// GetDeals godoc
//
//	@Summary		Offers open for transport bids
//	@Tags			Orders
//	@Produce		json
//	@Param			q	query		string	false	"Commodity, buyer or producer name"
//	@Success		200	{object}	types.Response{data=[]dto.OrderSummaryResponse}
//	@Security		BearerAuth
//	@Router			/v1/deals [get]
func (oc *OrderController) GetDeals(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, dto.ToOrderSummaries(oc.board.Deals(c.Query("q"))))
}

// CreateOrder godoc
//
//	@Summary		Post a general buy order
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.CreateOrderRequest	true	"Order"
//	@Success		201		{object}	types.Response{data=dto.OrderResponse}
//	@Failure		400		{object}	types.Response	"Invalid input or unknown commodity"
//	@Security		BearerAuth
//	@Router			/v1/orders [post]
func (oc *OrderController) CreateOrder(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := oc.validator.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	order, err := oc.svc.PostGeneralOrder(c.UserContext(), user, market.OrderInput{
		Commodity: req.Commodity,
		Quantity:  req.Quantity,
		Price:     req.OfferPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, dto.ToOrderResponse(*order))
}

// GetOrderBids godoc
//
//	@Summary		Transport bids on an order
//	@Tags			Bids
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	types.Response{data=dto.OrderBidsResponse}
//	@Failure		404	{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/orders/{id}/bids [get]
func (oc *OrderController) GetOrderBids(c *fiber.Ctx) error {
	bids, err := oc.svc.BidsForOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ToOrderBidsResponse(*bids))
}

// PlaceBid godoc
//
//	@Summary		Bid to transport an order
//	@Tags			Bids
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Order ID"
//	@Param			body	body		dto.CreateBidRequest	true	"Bid"
//	@Success		201		{object}	types.Response{data=dto.BidResponse}
//	@Failure		400		{object}	types.Response
//	@Failure		403		{object}	types.Response
//	@Failure		404		{object}	types.Response
//	@Failure		409		{object}	types.Response	"Transport already accepted"
//	@Security		BearerAuth
//	@Router			/v1/orders/{id}/bids [post]
func (oc *OrderController) PlaceBid(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	var req dto.CreateBidRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := oc.validator.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	in, err := req.ToInput(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	bid, err := oc.svc.PlaceBid(c.UserContext(), user, in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, dto.ToBidResponse(*bid, nil))
}

// AcceptBid godoc
//
//	@Summary		Accept a transport bid
//	@Description	Only the producer of the yield behind the offer may accept. Creates the deal's transaction record in pending state.
//	@Tags			Bids
//	@Produce		json
//	@Param			id	path		string	true	"Bid ID"
//	@Success		200	{object}	types.Response{data=dto.TransactionResponse}
//	@Failure		403	{object}	types.Response
//	@Failure		404	{object}	types.Response
//	@Failure		409	{object}	types.Response	"Another bid was accepted"
//	@Security		BearerAuth
//	@Router			/v1/bids/{id}/accept [post]
func (oc *OrderController) AcceptBid(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	tx, err := oc.svc.AcceptTransportBid(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ToTransactionResponse(*tx))
}

func InitOrderRoutes(router fiber.Router, svc *market.Service, b *board.Board) {
	orderController := NewOrderController(svc, b)

	router.Get("/orders", middlewares.Auth, orderController.GetOrders)
	router.Post("/orders", middlewares.Auth, orderController.CreateOrder)
	router.Get("/deals", middlewares.Auth, orderController.GetDeals)
	router.Get("/orders/:id/bids", middlewares.Auth, orderController.GetOrderBids)
	router.Post("/orders/:id/bids", middlewares.Auth, orderController.PlaceBid)
	router.Post("/bids/:id/accept", middlewares.Auth, orderController.AcceptBid)
}
