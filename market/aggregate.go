package market

import "github.com/mcmanyika/Musika/types"

// OfferAggregate summarizes the offers referencing one yield.
type OfferAggregate struct {
	OfferCount   int
	HighestOffer float64
}

// BidAggregate summarizes the transport bids on one order.
type BidAggregate struct {
	BidCount  int
	LowestBid float64
}

// OfferStats counts the orders referencing yieldID. HighestOffer is 0 when
// there are none.
func OfferStats(yieldID string, orders []types.BuyerOrder) OfferAggregate {
	var agg OfferAggregate
	for _, o := range orders {
		if o.YieldID == nil || *o.YieldID != yieldID {
			continue
		}
		agg.OfferCount++
		if o.OfferPrice > agg.HighestOffer {
			agg.HighestOffer = o.OfferPrice
		}
	}
	return agg
}

// BidStats counts the bids referencing orderID. LowestBid is 0 when there
// are none.
func BidStats(orderID string, bids []types.TransportBid) BidAggregate {
	var agg BidAggregate
	for _, b := range bids {
		if b.OrderID != orderID {
			continue
		}
		if agg.BidCount == 0 || b.BidAmount < agg.LowestBid {
			agg.LowestBid = b.BidAmount
		}
		agg.BidCount++
	}
	return agg
}

type YieldSummary struct {
	Yield types.ProducerYield
	OfferAggregate
}

type OrderSummary struct {
	Order types.BuyerOrder
	BidAggregate
}
