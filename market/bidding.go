package market

import (
	"context"
	"time"

	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
)

type BidInput struct {
	OrderID       string
	Amount        float64
	EstimatedDate time.Time
}

type OrderBids struct {
	Order         types.BuyerOrder
	Bids          []types.TransportBid
	AcceptedBidID *string
	BidAggregate
}

// PlaceBid records a transporter's quote for delivering an order. Orders
// whose transport has already been accepted take no further bids.
func (s *Service) PlaceBid(ctx context.Context, transporter Actor, in BidInput) (*types.TransportBid, error) {
	if err := transporter.check(); err != nil {
		return nil, err
	}
	if !positive(in.Amount) {
		return nil, invalid("bidAmount", "must be greater than zero")
	}
	if !in.EstimatedDate.After(s.now()) {
		return nil, invalid("estimatedDeliveryDate", "must be in the future")
	}

	var order types.BuyerOrder
	if err := s.db.WithContext(ctx).First(&order, "id = ?", in.OrderID).Error; err != nil {
		return nil, lookupErr("order", in.OrderID, err)
	}
	if order.UserID == transporter.ID {
		return nil, &AuthorizationError{Reason: "cannot bid on your own order"}
	}

	var accepted int64
	err := s.db.WithContext(ctx).Model(&types.TransactionHistory{}).
		Where("order_id = ? AND transport_bid_id IS NOT NULL", order.ID).
		Count(&accepted).Error
	if err != nil {
		return nil, remote("check accepted bids", err)
	}
	if accepted > 0 {
		return nil, &ConflictError{Reason: "transport for this order has already been accepted"}
	}

	bid := types.TransportBid{
		UserID:                transporter.ID,
		OrderID:               order.ID,
		TransporterName:       transporter.DisplayName(),
		BidAmount:             in.Amount,
		EstimatedDeliveryDate: in.EstimatedDate.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&bid).Error; err != nil {
		return nil, remote("create bid", err)
	}

	s.publish(ctx, types.TableBids, realtime.Insert)
	return &bid, nil
}

func (s *Service) BidsForOrder(ctx context.Context, orderID string) (*OrderBids, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var bids []types.TransportBid
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, remote("list bids", err)
	}

	var txs []types.TransactionHistory
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Limit(1).Find(&txs).Error; err != nil {
		return nil, remote("load transaction", err)
	}

	res := &OrderBids{
		Order:        *order,
		Bids:         bids,
		BidAggregate: BidStats(orderID, bids),
	}
	if len(txs) == 1 {
		res.AcceptedBidID = txs[0].TransportBidID
	}
	return res, nil
}
