package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/board"
	"github.com/mcmanyika/Musika/dto"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
)

type ListingController struct {
	svc   *market.Service
	board *board.Board
}

func NewListingController(svc *market.Service, b *board.Board) *ListingController {
	return &ListingController{svc: svc, board: b}
}

// GetMyListings godoc
//
//	@Summary		My listings
//	@Description	Yields, orders, offers and transport bids posted by the current user, newest first, with rating stats for every party shown.
//	@Tags			Listings
//	@Produce		json
//	@Success		200	{object}	types.Response{data=dto.MyListingsResponse}
//	@Failure		401	{object}	types.Response
//	@Failure		502	{object}	types.Response
//	@Security		BearerAuth
//	@Router			/v1/listings [get]
func (lc *ListingController) GetMyListings(c *fiber.Ctx) error {
	user, found := middlewares.CurrentUser(c)
	if !found {
		return unauthenticated(c)
	}

	listings := lc.board.Mine(user.ID)
	bidIDs := make([]string, 0, len(listings.Bids))
	for _, bl := range listings.Bids {
		bidIDs = append(bidIDs, bl.Bid.ID)
	}
	accepted, err := lc.svc.AcceptedBids(c.UserContext(), bidIDs)
	if err != nil {
		return respondError(c, err)
	}
	stats := lc.svc.RatingStatsFor(c.UserContext(), listings.UserIDs())
	return ok(c, fiber.StatusOK, dto.ToMyListingsResponse(listings, accepted, stats))
}

func InitListingRoutes(router fiber.Router, svc *market.Service, b *board.Board) {
	listingController := NewListingController(svc, b)

	router.Get("/listings", middlewares.Auth, listingController.GetMyListings)
}
