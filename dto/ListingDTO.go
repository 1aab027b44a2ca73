package dto

import (
	"github.com/mcmanyika/Musika/board"
	"github.com/mcmanyika/Musika/types"
)

type BidListingResponse struct {
	BidResponse
	Order *OrderResponse `json:"order,omitempty"`
	Yield *YieldResponse `json:"yield,omitempty"`
}

// MyListingsResponse is everything the caller has posted, with rating stats
// for every user who appears in it.
type MyListingsResponse struct {
	Yields      []YieldSummaryResponse           `json:"yields"`
	Orders      []OrderSummaryResponse           `json:"orders"`
	Bids        []BidListingResponse             `json:"bids"`
	RatingStats map[string]types.UserRatingStats `json:"ratingStats"`
}

func ToBidListingResponse(bl board.BidListing, accepted bool) BidListingResponse {
	res := BidListingResponse{BidResponse: ToBidResponse(bl.Bid, nil)}
	res.Accepted = accepted
	if bl.Order.ID != "" {
		order := ToOrderResponse(bl.Order)
		res.Order = &order
	}
	if bl.Yield != nil {
		y := ToYieldResponse(*bl.Yield)
		res.Yield = &y
	}
	return res
}

func ToMyListingsResponse(l board.Listings, accepted map[string]bool, stats map[string]types.UserRatingStats) MyListingsResponse {
	bids := make([]BidListingResponse, 0, len(l.Bids))
	for _, bl := range l.Bids {
		bids = append(bids, ToBidListingResponse(bl, accepted[bl.Bid.ID]))
	}
	if stats == nil {
		stats = map[string]types.UserRatingStats{}
	}
	return MyListingsResponse{
		Yields:      ToYieldSummaries(l.Yields),
		Orders:      ToOrderSummaries(l.Orders),
		Bids:        bids,
		RatingStats: stats,
	}
}
