package market

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
	"gorm.io/gorm"
)

// AcceptTransportBid lets the producer behind an offer choose the transporter
// for it. The deal's transaction record is created (or completed) in pending
// state. Accepting the already accepted bid again is a no-op; choosing a
// different bid once one is accepted is a ConflictError.
func (s *Service) AcceptTransportBid(ctx context.Context, seller Actor, bidID string) (*types.TransactionHistory, error) {
	if err := seller.check(); err != nil {
		return nil, err
	}

	var bid types.TransportBid
	if err := s.db.WithContext(ctx).First(&bid, "id = ?", bidID).Error; err != nil {
		return nil, lookupErr("transport bid", bidID, err)
	}

	// one acceptance per order at a time in this process; the unique index covers other processes
	orderLock := s.getOrderLock(bid.OrderID)
	orderLock.Lock()
	defer orderLock.Unlock()

	var result types.TransactionHistory
	event := realtime.Event(0)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order types.BuyerOrder
		if err := tx.First(&order, "id = ?", bid.OrderID).Error; err != nil {
			return lookupErr("order", bid.OrderID, err)
		}
		if !order.IsOffer() {
			return &NotFoundError{Entity: "yield for order", ID: order.ID}
		}

		var y types.ProducerYield
		if err := tx.First(&y, "id = ?", *order.YieldID).Error; err != nil {
			return lookupErr("yield", *order.YieldID, err)
		}
		if y.UserID != seller.ID {
			return &AuthorizationError{Reason: "only the producer of this yield can accept transport bids"}
		}

		var existing types.TransactionHistory
		err := forUpdate(tx).Where("order_id = ?", order.ID).First(&existing).Error
		switch {
		case err == nil:
			if existing.TransportBidID != nil {
				if *existing.TransportBidID == bid.ID {
					result = existing
					return nil
				}
				return &ConflictError{Reason: "a different transport bid was already accepted for this order"}
			}
			err := tx.Model(&existing).Updates(map[string]interface{}{
				"transport_bid_id": bid.ID,
				"status":           types.StatusPending,
			}).Error
			if err != nil {
				return remote("update transaction", err)
			}
			existing.TransportBidID = &bid.ID
			existing.Status = types.StatusPending
			result = existing
			event = realtime.Update
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			bidRef := bid.ID
			result = types.TransactionHistory{
				OrderID:        order.ID,
				YieldID:        y.ID,
				BuyerID:        order.UserID,
				SellerID:       y.UserID,
				TransportBidID: &bidRef,
				Status:         types.StatusPending,
			}
			if err := tx.Create(&result).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &ConflictError{Reason: "a transaction for this order was created concurrently"}
				}
				return remote("create transaction", err)
			}
			event = realtime.Insert
			return nil

		default:
			return remote("load transaction", err)
		}
	})
	if err != nil {
		err = remote("accept transport bid", err)
		var r *RemoteError
		if errors.As(err, &r) {
			log.Errorf("Accepting bid %s failed: %v", bidID, err)
		}
		return nil, err
	}

	if event != 0 {
		log.Infof("Bid %s accepted for order %s, transaction %s", bid.ID, bid.OrderID, result.ID)
		s.publish(ctx, types.TableTransactions, event)
	}
	return &result, nil
}
