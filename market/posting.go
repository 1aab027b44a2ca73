package market

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
	"gorm.io/gorm"
)

// YieldInput carries the mutable fields of a yield. Image is a URL, a data
// URL or bare base64; empty means no image.
type YieldInput struct {
	Commodity        string
	ExpectedQuantity float64
	ExpectedDate     time.Time
	Image            string
}

type OfferInput struct {
	YieldID  string
	Quantity float64
	Price    float64
}

type OrderInput struct {
	Commodity string
	Quantity  float64
	Price     float64
}

// positive rejects zero, negatives, NaN and infinities.
func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func (s *Service) validateYield(in YieldInput) error {
	if !positive(in.ExpectedQuantity) {
		return invalid("expectedQuantity", "must be greater than zero")
	}
	if !in.ExpectedDate.After(s.now()) {
		return invalid("expectedDate", "must be in the future")
	}
	return nil
}

func validateQuantityPrice(quantity, price float64) error {
	if !positive(quantity) {
		return invalid("quantity", "must be greater than zero")
	}
	if !positive(price) {
		return invalid("offerPrice", "must be greater than zero")
	}
	return nil
}

// resolveCommodity finds a commodity by id, slug or case-insensitive name.
func (s *Service) resolveCommodity(ctx context.Context, ref string) (*types.Commodity, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, invalid("commodity", "is required")
	}

	var c types.Commodity
	err := s.db.WithContext(ctx).
		Where("id IN ? OR LOWER(name) = LOWER(?)", []string{ref, slug.Make(ref)}, ref).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("commodity", "unknown commodity %q", ref)
	}
	if err != nil {
		return nil, remote("resolve commodity", err)
	}
	return &c, nil
}

func (s *Service) PostYield(ctx context.Context, producer Actor, in YieldInput) (*types.ProducerYield, error) {
	if err := producer.check(); err != nil {
		return nil, err
	}
	if err := s.validateYield(in); err != nil {
		return nil, err
	}
	commodity, err := s.resolveCommodity(ctx, in.Commodity)
	if err != nil {
		return nil, err
	}

	y := types.ProducerYield{
		UserID:           producer.ID,
		CommodityName:    commodity.Name,
		CommodityUnit:    commodity.Unit,
		ExpectedQuantity: in.ExpectedQuantity,
		ExpectedDate:     in.ExpectedDate.UTC(),
		ProducerName:     producer.DisplayName(),
		ProductImage:     s.storeProductImage(ctx, producer.ID, in.Image),
	}
	if err := s.db.WithContext(ctx).Create(&y).Error; err != nil {
		return nil, remote("create yield", err)
	}

	s.publish(ctx, types.TableYields, realtime.Insert)
	return &y, nil
}

// EditYield replaces the mutable fields of a yield owned by producer.
func (s *Service) EditYield(ctx context.Context, producer Actor, yieldID string, in YieldInput) (*types.ProducerYield, error) {
	if err := producer.check(); err != nil {
		return nil, err
	}

	var y types.ProducerYield
	if err := s.db.WithContext(ctx).First(&y, "id = ?", yieldID).Error; err != nil {
		return nil, lookupErr("yield", yieldID, err)
	}
	if y.UserID != producer.ID {
		return nil, &AuthorizationError{Reason: "only the producer can edit this yield"}
	}
	if err := s.validateYield(in); err != nil {
		return nil, err
	}
	commodity, err := s.resolveCommodity(ctx, in.Commodity)
	if err != nil {
		return nil, err
	}

	y.CommodityName = commodity.Name
	y.CommodityUnit = commodity.Unit
	y.ExpectedQuantity = in.ExpectedQuantity
	y.ExpectedDate = in.ExpectedDate.UTC()
	if strings.TrimSpace(in.Image) != y.ProductImage {
		y.ProductImage = s.storeProductImage(ctx, producer.ID, in.Image)
	}

	if err := s.db.WithContext(ctx).Save(&y).Error; err != nil {
		return nil, remote("update yield", err)
	}

	s.publish(ctx, types.TableYields, realtime.Update)
	return &y, nil
}

// PostOffer creates an order linked to a yield. The quantity cap is checked
// against the yield as it is now; later edits to the yield do not revisit it.
func (s *Service) PostOffer(ctx context.Context, buyer Actor, in OfferInput) (*types.BuyerOrder, error) {
	if err := buyer.check(); err != nil {
		return nil, err
	}
	if err := validateQuantityPrice(in.Quantity, in.Price); err != nil {
		return nil, err
	}

	var y types.ProducerYield
	if err := s.db.WithContext(ctx).First(&y, "id = ?", in.YieldID).Error; err != nil {
		return nil, lookupErr("yield", in.YieldID, err)
	}
	if in.Quantity > y.ExpectedQuantity {
		return nil, invalid("quantity", "exceeds expected yield of %g %s", y.ExpectedQuantity, y.CommodityUnit)
	}
	if y.UserID == buyer.ID {
		return nil, &AuthorizationError{Reason: "cannot make an offer on your own yield"}
	}

	yieldID := y.ID
	order := types.BuyerOrder{
		UserID:        buyer.ID,
		CommodityName: y.CommodityName,
		CommodityUnit: y.CommodityUnit,
		Quantity:      in.Quantity,
		OfferPrice:    in.Price,
		BuyerName:     buyer.DisplayName(),
		YieldID:       &yieldID,
		ProducerName:  y.ProducerName,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, remote("create offer", err)
	}

	s.publish(ctx, types.TableOrders, realtime.Insert)
	return &order, nil
}

func (s *Service) PostGeneralOrder(ctx context.Context, buyer Actor, in OrderInput) (*types.BuyerOrder, error) {
	if err := buyer.check(); err != nil {
		return nil, err
	}
	if err := validateQuantityPrice(in.Quantity, in.Price); err != nil {
		return nil, err
	}
	commodity, err := s.resolveCommodity(ctx, in.Commodity)
	if err != nil {
		return nil, err
	}

	order := types.BuyerOrder{
		UserID:        buyer.ID,
		CommodityName: commodity.Name,
		CommodityUnit: commodity.Unit,
		Quantity:      in.Quantity,
		OfferPrice:    in.Price,
		BuyerName:     buyer.DisplayName(),
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, remote("create order", err)
	}

	s.publish(ctx, types.TableOrders, realtime.Insert)
	return &order, nil
}
