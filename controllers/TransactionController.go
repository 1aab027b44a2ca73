package controllers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/dto"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
	"github.com/mcmanyika/Musika/types"
)

type TransactionController struct {
	svc       *market.Service
	validator *validator.Validate
}

func NewTransactionController(svc *market.Service) *TransactionController {
	return &TransactionController{
		svc:       svc,
		validator: validator.New(),
	}
}

func allOrValue(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return ""
	}
	return s
}

// GetTransactions godoc
//
//	@Summary		My transactions
//	@Description	Transactions the current user takes part in as buyer, seller or transporter.
//	@Tags			Transactions
//	@Produce		json
//	@Param			role	query		string	false	"all | buyer | seller | transporter"
//	@Param			status	query		string	false	"all | pending | in_transit | delivered | cancelled"
//	@Success		200		{object}	types.Response{data=[]dto.TransactionResponse}
//	@Failure		400		{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/transactions [get]
func (tc *TransactionController) GetTransactions(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	txs, err := tc.svc.TransactionsFor(c.UserContext(), user, market.TransactionFilter{
		Role:   market.Role(allOrValue(c.Query("role"))),
		Status: types.TransactionStatus(allOrValue(c.Query("status"))),
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ToTransactionResponses(txs))
}

// RateTransaction godoc
//
//	@Summary		Rate the other party of a delivered transaction
//	@Description	Buyers rate sellers (buyer_to_seller) and sellers rate buyers (seller_to_buyer). Rating again updates the earlier rating.
//	@Tags			Ratings
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Transaction ID"
//	@Param			body	body		dto.CreateRatingRequest	true	"Scores 1-5"
//	@Success		201		{object}	types.Response{data=dto.RatingResponse}
//	@Failure		400		{object}	types.Response
//	@Failure		403		{object}	types.Response
//	@Failure		404		{object}	types.Response
//	@Failure		409		{object}	types.Response	"Not delivered yet"
//	@Security		BearerAuth
//	@Router			/v1/transactions/{id}/ratings [post]
func (tc *TransactionController) RateTransaction(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	var req dto.CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := tc.validator.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	rating, err := tc.svc.RateTransaction(c.UserContext(), user, req.ToInput(c.Params("id")))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, dto.ToRatingResponse(*rating))
}

func InitTransactionRoutes(router fiber.Router, svc *market.Service) {
	transactionController := NewTransactionController(svc)

	router.Get("/transactions", middlewares.Auth, transactionController.GetTransactions)
	router.Post("/transactions/:id/ratings", middlewares.Auth, transactionController.RateTransaction)
}
