package market

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAll         Role = ""
	RoleBuyer       Role = "buyer"
	RoleSeller      Role = "seller"
	RoleTransporter Role = "transporter"
)

var transitions = map[types.TransactionStatus][]types.TransactionStatus{
	types.StatusPending:   {types.StatusInTransit, types.StatusCancelled},
	types.StatusInTransit: {types.StatusDelivered, types.StatusCancelled},
}

// CanTransition reports whether a transaction may move from one status to another.
func CanTransition(from, to types.TransactionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*types.TransactionHistory, error) {
	var t types.TransactionHistory
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, lookupErr("transaction", id, err)
	}
	return &t, nil
}

// AdvanceTransaction applies a delivery status reported by fulfillment.
// Repeating the current status is a no-op.
func (s *Service) AdvanceTransaction(ctx context.Context, transactionID string, status types.TransactionStatus) (*types.TransactionHistory, error) {
	if !status.Valid() {
		return nil, invalid("status", "unknown status %q", status)
	}

	var result types.TransactionHistory
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&result, "id = ?", transactionID).Error; err != nil {
			return lookupErr("transaction", transactionID, err)
		}
		if result.Status == status {
			return nil
		}
		if !CanTransition(result.Status, status) {
			return &ConflictError{Reason: fmt.Sprintf("cannot move transaction from %s to %s", result.Status, status)}
		}

		updates := map[string]interface{}{"status": status}
		if status == types.StatusDelivered {
			now := s.now().UTC()
			updates["completed_at"] = now
			result.CompletedAt = &now
		}
		if err := tx.Model(&result).Updates(updates).Error; err != nil {
			return remote("update transaction status", err)
		}
		result.Status = status
		changed = true
		return nil
	})
	if err != nil {
		return nil, remote("advance transaction", err)
	}

	if changed {
		log.Infof("Transaction %s is now %s", result.ID, result.Status)
		s.publish(ctx, types.TableTransactions, realtime.Update)
	}
	return &result, nil
}

type TransactionFilter struct {
	Role   Role
	Status types.TransactionStatus
}

// TransactionsFor lists the transactions a user takes part in, newest first.
func (s *Service) TransactionsFor(ctx context.Context, user Actor, filter TransactionFilter) ([]types.TransactionHistory, error) {
	if err := user.check(); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status", "unknown status %q", filter.Status)
	}

	q := s.db.WithContext(ctx).Model(&types.TransactionHistory{})
	transporterBids := s.db.Model(&types.TransportBid{}).Select("id").Where("user_id = ?", user.ID)

	switch filter.Role {
	case RoleBuyer:
		q = q.Where("buyer_id = ?", user.ID)
	case RoleSeller:
		q = q.Where("seller_id = ?", user.ID)
	case RoleTransporter:
		q = q.Where("transport_bid_id IN (?)", transporterBids)
	case RoleAll:
		q = q.Where("buyer_id = ? OR seller_id = ? OR transport_bid_id IN (?)", user.ID, user.ID, transporterBids)
	default:
		return nil, invalid("role", "unknown role %q", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var out []types.TransactionHistory
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, remote("list transactions", err)
	}
	return out, nil
}

// OpenTransactions returns transactions still waiting on delivery.
func (s *Service) OpenTransactions(ctx context.Context) ([]types.TransactionHistory, error) {
	var out []types.TransactionHistory
	err := s.db.WithContext(ctx).
		Where("status IN ?", []types.TransactionStatus{types.StatusPending, types.StatusInTransit}).
		Order("created_at").
		Find(&out).Error
	if err != nil {
		return nil, remote("list open transactions", err)
	}
	return out, nil
}

// AcceptedBids reports which of the given bids a producer has accepted.
func (s *Service) AcceptedBids(ctx context.Context, bidIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(bidIDs) == 0 {
		return out, nil
	}
	var accepted []string
	err := s.db.WithContext(ctx).Model(&types.TransactionHistory{}).
		Where("transport_bid_id IN ?", bidIDs).
		Pluck("transport_bid_id", &accepted).Error
	if err != nil {
		return nil, remote("list accepted bids", err)
	}
	for _, id := range accepted {
		out[id] = true
	}
	return out, nil
}
