package controllers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mcmanyika/Musika/dto"
	"github.com/mcmanyika/Musika/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaizeDealEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status, res := env.call(t, "POST", "/v1/yields", "farmer", dto.CreateYieldRequest{
		Commodity:        "Maize",
		ExpectedQuantity: 100,
		ExpectedDate:     futureDate(30),
	})
	require.Equal(t, fiber.StatusCreated, status, res.Error)
	yield := decode[dto.YieldResponse](t, res)
	assert.Equal(t, "kg", yield.CommodityUnit)
	assert.Equal(t, "farmer", yield.ProducerName)

	status, res = env.call(t, "POST", "/v1/yields/"+yield.ID+"/offers", "buyer", dto.CreateOfferRequest{Quantity: 150, OfferPrice: 0.35})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, res.Success)

	status, res = env.call(t, "POST", "/v1/yields/"+yield.ID+"/offers", "farmer", dto.CreateOfferRequest{Quantity: 10, OfferPrice: 0.35})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, res = env.call(t, "POST", "/v1/yields/"+yield.ID+"/offers", "buyer", dto.CreateOfferRequest{Quantity: 60, OfferPrice: 0.35})
	require.Equal(t, fiber.StatusCreated, status, res.Error)
	offer := decode[dto.OrderResponse](t, res)
	assert.True(t, offer.IsOffer)
	assert.Equal(t, "farmer", offer.ProducerName)

	status, res = env.call(t, "POST", "/v1/orders/"+offer.ID+"/bids", "hauler", dto.CreateBidRequest{
		BidAmount:             20,
		EstimatedDeliveryDate: futureDate(7),
	})
	require.Equal(t, fiber.StatusCreated, status, res.Error)
	bid := decode[dto.BidResponse](t, res)

	status, _ = env.call(t, "POST", "/v1/bids/"+bid.ID+"/accept", "stranger", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	var count int64
	require.NoError(t, env.db.Model(&types.TransactionHistory{}).Count(&count).Error)
	assert.Zero(t, count)

	status, res = env.call(t, "POST", "/v1/bids/"+bid.ID+"/accept", "farmer", nil)
	require.Equal(t, fiber.StatusOK, status, res.Error)
	tx := decode[dto.TransactionResponse](t, res)
	assert.Equal(t, types.StatusPending, tx.Status)
	assert.Equal(t, "buyer", tx.BuyerID)
	assert.Equal(t, "farmer", tx.SellerID)
	require.NotNil(t, tx.TransportBidID)
	assert.Equal(t, bid.ID, *tx.TransportBidID)

	status, res = env.call(t, "GET", "/v1/orders/"+offer.ID+"/bids", "farmer", nil)
	require.Equal(t, fiber.StatusOK, status)
	bids := decode[dto.OrderBidsResponse](t, res)
	require.Len(t, bids.Bids, 1)
	assert.True(t, bids.Bids[0].Accepted)

	status, _ = env.call(t, "POST", "/v1/orders/"+offer.ID+"/bids", "hauler2", dto.CreateBidRequest{
		BidAmount:             18,
		EstimatedDeliveryDate: futureDate(5),
	})
	assert.Equal(t, fiber.StatusConflict, status)

	for _, role := range []string{"buyer", "seller", "transporter"} {
		user := map[string]string{"buyer": "buyer", "seller": "farmer", "transporter": "hauler"}[role]
		status, res = env.call(t, "GET", "/v1/transactions?role="+role, user, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, decode[[]dto.TransactionResponse](t, res), 1, role)
	}
	status, res = env.call(t, "GET", "/v1/transactions?role=all&status=delivered", "buyer", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[[]dto.TransactionResponse](t, res))

	rating := dto.CreateRatingRequest{RatingType: "buyer_to_seller", QualityRating: 5, CommunicationRating: 4, TimelinessRating: 5}
	status, _ = env.call(t, "POST", "/v1/transactions/"+tx.ID+"/ratings", "buyer", rating)
	assert.Equal(t, fiber.StatusConflict, status)

	_, err := env.svc.AdvanceTransaction(ctx, tx.ID, types.StatusInTransit)
	require.NoError(t, err)
	_, err = env.svc.AdvanceTransaction(ctx, tx.ID, types.StatusDelivered)
	require.NoError(t, err)

	status, _ = env.call(t, "POST", "/v1/transactions/"+tx.ID+"/ratings", "farmer", rating)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, res = env.call(t, "POST", "/v1/transactions/"+tx.ID+"/ratings", "buyer", rating)
	require.Equal(t, fiber.StatusCreated, status, res.Error)
	saved := decode[dto.RatingResponse](t, res)
	assert.Equal(t, 4.67, saved.OverallRating)
	assert.Equal(t, "farmer", saved.RatedUserID)

	status, res = env.call(t, "GET", "/v1/users/farmer/rating-stats", "buyer", nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := decode[types.UserRatingStats](t, res)
	assert.Equal(t, int64(1), stats.TotalRatings)
	assert.InDelta(t, 4.67, stats.AverageOverall, 1e-9)

	status, res = env.call(t, "GET", "/v1/users/farmer/ratings", "buyer", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]dto.RatingResponse](t, res), 1)

	status, res = env.call(t, "GET", "/v1/rating-stats?users=farmer,nobody", "buyer", nil)
	require.Equal(t, fiber.StatusOK, status)
	batch := decode[map[string]types.UserRatingStats](t, res)
	assert.Equal(t, int64(1), batch["farmer"].TotalRatings)
	assert.Equal(t, int64(0), batch["nobody"].TotalRatings)
}

func TestBoardListingsFollowWrites(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.call(t, "POST", "/v1/yields", "farmer", dto.CreateYieldRequest{
		Commodity: "tomatoes", ExpectedQuantity: 40, ExpectedDate: futureDate(10),
	})
	yield := decode[dto.YieldResponse](t, res)
	_, res = env.call(t, "POST", "/v1/yields/"+yield.ID+"/offers", "buyer", dto.CreateOfferRequest{Quantity: 20, OfferPrice: 7})
	offer := decode[dto.OrderResponse](t, res)
	env.call(t, "POST", "/v1/yields/"+yield.ID+"/offers", "buyer2", dto.CreateOfferRequest{Quantity: 10, OfferPrice: 7.4})
	env.call(t, "POST", "/v1/orders", "buyer", dto.CreateOrderRequest{Commodity: "Onions", Quantity: 5, OfferPrice: 12})
	env.call(t, "POST", "/v1/orders/"+offer.ID+"/bids", "hauler", dto.CreateBidRequest{BidAmount: 25, EstimatedDeliveryDate: futureDate(3)})
	env.call(t, "POST", "/v1/orders/"+offer.ID+"/bids", "hauler2", dto.CreateBidRequest{BidAmount: 19.5, EstimatedDeliveryDate: futureDate(4)})

	assert.Eventually(t, func() bool {
		_, res := env.call(t, "GET", "/v1/yields?q=tomato", "anyone", nil)
		yields := decode[[]dto.YieldSummaryResponse](t, res)
		return len(yields) == 1 && yields[0].OfferCount == 2 && yields[0].HighestOffer == 7.4
	}, 2*time.Second, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, res := env.call(t, "GET", "/v1/deals", "anyone", nil)
		deals := decode[[]dto.OrderSummaryResponse](t, res)
		if len(deals) != 2 {
			return false
		}
		for _, d := range deals {
			if d.ID == offer.ID {
				return d.BidCount == 2 && d.LowestBid == 19.5
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, res := env.call(t, "GET", "/v1/orders", "anyone", nil)
		orders := decode[[]dto.OrderSummaryResponse](t, res)
		return len(orders) == 1 && orders[0].CommodityName == "Onions" && orders[0].BidCount == 0
	}, 2*time.Second, 20*time.Millisecond)

	_, res = env.call(t, "GET", "/v1/orders?offers=true", "anyone", nil)
	assert.Len(t, decode[[]dto.OrderSummaryResponse](t, res), 3)

	status, res := env.call(t, "GET", "/v1/yields/"+yield.ID+"/offers", "farmer", nil)
	require.Equal(t, fiber.StatusOK, status)
	offers := decode[dto.YieldOffersResponse](t, res)
	assert.Equal(t, 2, offers.OfferCount)
	assert.Equal(t, 7.4, offers.HighestOffer)
}

func TestYieldEditing(t *testing.T) {
	env := newTestEnv(t)
	_, res := env.call(t, "POST", "/v1/yields", "farmer", dto.CreateYieldRequest{
		Commodity: "Maize", ExpectedQuantity: 100, ExpectedDate: futureDate(30),
	})
	yield := decode[dto.YieldResponse](t, res)

	update := dto.CreateYieldRequest{Commodity: "Potatoes", ExpectedQuantity: 80, ExpectedDate: futureDate(20)}
	status, _ := env.call(t, "PUT", "/v1/yields/"+yield.ID, "buyer", update)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, res = env.call(t, "PUT", "/v1/yields/"+yield.ID, "farmer", update)
	require.Equal(t, fiber.StatusOK, status, res.Error)
	edited := decode[dto.YieldResponse](t, res)
	assert.Equal(t, "Potatoes", edited.CommodityName)
	assert.Equal(t, 80.0, edited.ExpectedQuantity)

	status, _ = env.call(t, "PUT", "/v1/yields/missing", "farmer", update)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRequestErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
		want   int
	}{
		{"anonymous write", "POST", "/v1/orders", "", dto.CreateOrderRequest{Commodity: "Maize", Quantity: 1, OfferPrice: 1}, fiber.StatusUnauthorized},
		{"anonymous board", "GET", "/v1/deals", "", nil, fiber.StatusUnauthorized},
		{"zero quantity", "POST", "/v1/orders", "buyer", dto.CreateOrderRequest{Commodity: "Maize", OfferPrice: 1}, fiber.StatusBadRequest},
		{"unknown commodity", "POST", "/v1/orders", "buyer", dto.CreateOrderRequest{Commodity: "Saffron", Quantity: 1, OfferPrice: 1}, fiber.StatusBadRequest},
		{"past harvest", "POST", "/v1/yields", "farmer", dto.CreateYieldRequest{Commodity: "Maize", ExpectedQuantity: 1, ExpectedDate: "2020-01-01"}, fiber.StatusBadRequest},
		{"bad date", "POST", "/v1/yields", "farmer", dto.CreateYieldRequest{Commodity: "Maize", ExpectedQuantity: 1, ExpectedDate: "next week"}, fiber.StatusBadRequest},
		{"bid on missing order", "POST", "/v1/orders/missing/bids", "hauler", dto.CreateBidRequest{BidAmount: 1, EstimatedDeliveryDate: futureDate(1)}, fiber.StatusNotFound},
		{"accept missing bid", "POST", "/v1/bids/missing/accept", "farmer", nil, fiber.StatusNotFound},
		{"unknown role", "GET", "/v1/transactions?role=broker", "buyer", nil, fiber.StatusBadRequest},
		{"score out of range", "POST", "/v1/transactions/x/ratings", "buyer", dto.CreateRatingRequest{RatingType: "buyer_to_seller", QualityRating: 9, CommunicationRating: 1, TimelinessRating: 1}, fiber.StatusBadRequest},
		{"rate missing transaction", "POST", "/v1/transactions/x/ratings", "buyer", dto.CreateRatingRequest{RatingType: "buyer_to_seller", QualityRating: 3, CommunicationRating: 3, TimelinessRating: 3}, fiber.StatusNotFound},
		{"batch stats without users", "GET", "/v1/rating-stats", "buyer", nil, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := env.call(t, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.want, status, fmt.Sprintf("%+v", res))
			assert.False(t, res.Success)
		})
	}
}

func TestGetCommodities(t *testing.T) {
	env := newTestEnv(t)

	status, res := env.call(t, "GET", "/v1/commodities?sort=price&order=desc", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	list := decode[[]dto.CommodityResponse](t, res)
	require.Len(t, list, 8)
	assert.Equal(t, "Onions", list[0].Name)
	assert.Len(t, list[0].History, 7)

	_, res = env.call(t, "GET", "/v1/commodities?search=maize", "", nil)
	assert.Len(t, decode[[]dto.CommodityResponse](t, res), 2)
}
