package dto

import (
	"time"

	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/types"
)

type CreateYieldRequest struct {
	Commodity        string  `json:"commodity" validate:"required"`
	ExpectedQuantity float64 `json:"expectedQuantity" validate:"required,gt=0"`
	ExpectedDate     string  `json:"expectedDate" validate:"required"`
	ProductImage     string  `json:"productImage"`
}

func (r CreateYieldRequest) ToInput() (market.YieldInput, error) {
	date, err := ParseDate(r.ExpectedDate)
	if err != nil {
		return market.YieldInput{}, err
	}
	return market.YieldInput{
		Commodity:        r.Commodity,
		ExpectedQuantity: r.ExpectedQuantity,
		ExpectedDate:     date,
		Image:            r.ProductImage,
	}, nil
}

type CreateOfferRequest struct {
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	OfferPrice float64 `json:"offerPrice" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Commodity  string  `json:"commodity" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	OfferPrice float64 `json:"offerPrice" validate:"required,gt=0"`
}

type CreateBidRequest struct {
	BidAmount             float64 `json:"bidAmount" validate:"required,gt=0"`
	EstimatedDeliveryDate string  `json:"estimatedDeliveryDate" validate:"required"`
}

func (r CreateBidRequest) ToInput(orderID string) (market.BidInput, error) {
	date, err := ParseDate(r.EstimatedDeliveryDate)
	if err != nil {
		return market.BidInput{}, err
	}
	return market.BidInput{OrderID: orderID, Amount: r.BidAmount, EstimatedDate: date}, nil
}

type YieldResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	CommodityName    string    `json:"commodityName"`
	CommodityUnit    string    `json:"commodityUnit"`
	ExpectedQuantity float64   `json:"expectedQuantity"`
	ExpectedDate     time.Time `json:"expectedDate"`
	ProducerName     string    `json:"producerName"`
	ProductImage     string    `json:"productImage,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type YieldSummaryResponse struct {
	YieldResponse
	OfferCount   int     `json:"offerCount"`
	HighestOffer float64 `json:"highestOffer"`
}

type OrderResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	CommodityName string    `json:"commodityName"`
	CommodityUnit string    `json:"commodityUnit"`
	Quantity      float64   `json:"quantity"`
	OfferPrice    float64   `json:"offerPrice"`
	BuyerName     string    `json:"buyerName"`
	YieldID       *string   `json:"yieldId,omitempty"`
	ProducerName  string    `json:"producerName,omitempty"`
	IsOffer       bool      `json:"isOffer"`
	CreatedAt     time.Time `json:"createdAt"`
}

type OrderSummaryResponse struct {
	OrderResponse
	BidCount  int     `json:"bidCount"`
	LowestBid float64 `json:"lowestBid"`
}

type BidResponse struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	OrderID               string    `json:"orderId"`
	TransporterName       string    `json:"transporterName"`
	BidAmount             float64   `json:"bidAmount"`
	EstimatedDeliveryDate time.Time `json:"estimatedDeliveryDate"`
	Accepted              bool      `json:"accepted"`
	CreatedAt             time.Time `json:"createdAt"`
}

type YieldOffersResponse struct {
	Yield        YieldResponse   `json:"yield"`
	Offers       []OrderResponse `json:"offers"`
	OfferCount   int             `json:"offerCount"`
	HighestOffer float64         `json:"highestOffer"`
}

type OrderBidsResponse struct {
	Order         OrderResponse `json:"order"`
	Bids          []BidResponse `json:"bids"`
	AcceptedBidID *string       `json:"acceptedBidId"`
	BidCount      int           `json:"bidCount"`
	LowestBid     float64       `json:"lowestBid"`
}

func ToYieldResponse(y types.ProducerYield) YieldResponse {
	return YieldResponse{
		ID:               y.ID,
		UserID:           y.UserID,
		CommodityName:    y.CommodityName,
		CommodityUnit:    y.CommodityUnit,
		ExpectedQuantity: y.ExpectedQuantity,
		ExpectedDate:     y.ExpectedDate,
		ProducerName:     y.ProducerName,
		ProductImage:     y.ProductImage,
		CreatedAt:        y.CreatedAt,
		UpdatedAt:        y.UpdatedAt,
	}
}

func ToYieldSummaries(in []market.YieldSummary) []YieldSummaryResponse {
	out := make([]YieldSummaryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, YieldSummaryResponse{
			YieldResponse: ToYieldResponse(s.Yield),
			OfferCount:    s.OfferCount,
			HighestOffer:  s.HighestOffer,
		})
	}
	return out
}

func ToOrderResponse(o types.BuyerOrder) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		CommodityName: o.CommodityName,
		CommodityUnit: o.CommodityUnit,
		Quantity:      o.Quantity,
		OfferPrice:    o.OfferPrice,
		BuyerName:     o.BuyerName,
		YieldID:       o.YieldID,
		ProducerName:  o.ProducerName,
		IsOffer:       o.IsOffer(),
		CreatedAt:     o.CreatedAt,
	}
}

func ToOrderResponses(in []types.BuyerOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(in))
	for _, o := range in {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

func ToOrderSummaries(in []market.OrderSummary) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, OrderSummaryResponse{
			OrderResponse: ToOrderResponse(s.Order),
			BidCount:      s.BidCount,
			LowestBid:     s.LowestBid,
		})
	}
	return out
}

func ToBidResponse(b types.TransportBid, acceptedID *string) BidResponse {
	return BidResponse{
		ID:                    b.ID,
		UserID:                b.UserID,
		OrderID:               b.OrderID,
		TransporterName:       b.TransporterName,
		BidAmount:             b.BidAmount,
		EstimatedDeliveryDate: b.EstimatedDeliveryDate,
		Accepted:              acceptedID != nil && *acceptedID == b.ID,
		CreatedAt:             b.CreatedAt,
	}
}

func ToYieldOffersResponse(in market.YieldOffers) YieldOffersResponse {
	return YieldOffersResponse{
		Yield:        ToYieldResponse(in.Yield),
		Offers:       ToOrderResponses(in.Offers),
		OfferCount:   in.OfferCount,
		HighestOffer: in.HighestOffer,
	}
}

func ToOrderBidsResponse(in market.OrderBids) OrderBidsResponse {
	bids := make([]BidResponse, 0, len(in.Bids))
	for _, b := range in.Bids {
		bids = append(bids, ToBidResponse(b, in.AcceptedBidID))
	}
	return OrderBidsResponse{
		Order:         ToOrderResponse(in.Order),
		Bids:          bids,
		AcceptedBidID: in.AcceptedBidID,
		BidCount:      in.BidCount,
		LowestBid:     in.LowestBid,
	}
}
