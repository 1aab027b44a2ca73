package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/board"
	"github.com/mcmanyika/Musika/commodities"
	"github.com/mcmanyika/Musika/controllers"
	"github.com/mcmanyika/Musika/market"
)

type Deps struct {
	Service     *market.Service
	Board       *board.Board
	Commodities *commodities.Feed
}

func SetupRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/v1")

	controllers.InitCommodityRoutes(v1, deps.Commodities)
	controllers.InitYieldRoutes(v1, deps.Service, deps.Board)
	controllers.InitOrderRoutes(v1, deps.Service, deps.Board)
	controllers.InitListingRoutes(v1, deps.Service, deps.Board)
	controllers.InitTransactionRoutes(v1, deps.Service)
	controllers.InitRatingRoutes(v1, deps.Service)
	controllers.InitProfileRoutes(v1, deps.Service)
}
