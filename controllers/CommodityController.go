package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/commodities"
	"github.com/mcmanyika/Musika/dto"
)

type CommodityController struct {
	feed *commodities.Feed
}

func NewCommodityController(feed *commodities.Feed) *CommodityController {
	return &CommodityController{feed: feed}
}

// GetCommodities godoc
//
//	@Summary		Commodity reference prices
//	@Description	Lists commodity prices with their 7-day history. Filter by name, sort by name, price or priceChange.
//	@Tags			Commodities
//	@Produce		json
//	@Param			search	query		string	false	"Name filter"
//	@Param			sort	query		string	false	"name | price | priceChange"
//	@Param			order	query		string	false	"asc | desc"
//	@Success		200		{object}	types.Response{data=[]dto.CommodityResponse}
//	@Failure		502		{object}	types.Response
//	@Router			/v1/commodities [get]
func (cc *CommodityController) GetCommodities(c *fiber.Ctx) error {
	list, err := cc.feed.List(c.UserContext(), commodities.ListQuery{
		Search:     c.Query("search"),
		SortKey:    c.Query("sort", "name"),
		Descending: strings.EqualFold(c.Query("order"), "desc"),
	})
	if err != nil {
		return fail(c, fiber.StatusBadGateway, "Failed to load commodities: "+err.Error())
	}
	return ok(c, fiber.StatusOK, dto.ToCommodityResponses(list))
}

func InitCommodityRoutes(router fiber.Router, feed *commodities.Feed) {
	commodityController := NewCommodityController(feed)

	router.Get("/commodities", commodityController.GetCommodities)
}
