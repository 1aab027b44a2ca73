package market

import (
	"context"

	"github.com/mcmanyika/Musika/types"
)

type YieldOffers struct {
	Yield  types.ProducerYield
	Offers []types.BuyerOrder
	OfferAggregate
}

func (s *Service) ListYields(ctx context.Context) ([]types.ProducerYield, error) {
	var yields []types.ProducerYield
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&yields).Error; err != nil {
		return nil, remote("list yields", err)
	}
	return yields, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]types.BuyerOrder, error) {
	var orders []types.BuyerOrder
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, remote("list orders", err)
	}
	return orders, nil
}

func (s *Service) ListBids(ctx context.Context) ([]types.TransportBid, error) {
	var bids []types.TransportBid
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, remote("list bids", err)
	}
	return bids, nil
}

func (s *Service) GetYield(ctx context.Context, id string) (*types.ProducerYield, error) {
	var y types.ProducerYield
	if err := s.db.WithContext(ctx).First(&y, "id = ?", id).Error; err != nil {
		return nil, lookupErr("yield", id, err)
	}
	return &y, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*types.BuyerOrder, error) {
	var o types.BuyerOrder
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, lookupErr("order", id, err)
	}
	return &o, nil
}

func (s *Service) OffersForYield(ctx context.Context, yieldID string) (*YieldOffers, error) {
	y, err := s.GetYield(ctx, yieldID)
	if err != nil {
		return nil, err
	}

	var offers []types.BuyerOrder
	if err := s.db.WithContext(ctx).Where("yield_id = ?", yieldID).Order("created_at DESC").Find(&offers).Error; err != nil {
		return nil, remote("list offers", err)
	}
	return &YieldOffers{
		Yield:          *y,
		Offers:         offers,
		OfferAggregate: OfferStats(yieldID, offers),
	}, nil
}
