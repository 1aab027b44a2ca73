package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransportBid struct {
	ID                    string `gorm:"primaryKey;type:varchar(36)"`
	UserID                string `gorm:"not null;index"`
	OrderID               string `gorm:"type:varchar(36);not null;index"`
	TransporterName       string
	BidAmount             float64   `gorm:"not null"`
	EstimatedDeliveryDate time.Time `gorm:"not null"`
	CreatedAt             time.Time `gorm:"autoCreateTime;index"`
}

func (TransportBid) TableName() string {
	return TableBids
}

func (b *TransportBid) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
