package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuyerOrder is a general purchase order, or an offer when YieldID is set.
type BuyerOrder struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)"`
	UserID        string  `gorm:"not null;index"`
	CommodityName string  `gorm:"not null;index"`
	CommodityUnit string  `gorm:"not null"`
	Quantity      float64 `gorm:"not null"`
	OfferPrice    float64 `gorm:"not null"`
	BuyerName     string
	YieldID       *string `gorm:"type:varchar(36);index"`
	ProducerName  string
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (BuyerOrder) TableName() string {
	return TableOrders
}

func (o *BuyerOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (o BuyerOrder) IsOffer() bool {
	return o.YieldID != nil && *o.YieldID != ""
}
