package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusInTransit TransactionStatus = "in_transit"
	StatusDelivered TransactionStatus = "delivered"
	StatusCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// TransactionHistory is the deal record created when a seller accepts a
// transport bid. There is at most one row per order.
type TransactionHistory struct {
	ID             string            `gorm:"primaryKey;type:varchar(36)"`
	OrderID        string            `gorm:"type:varchar(36);not null;uniqueIndex"`
	YieldID        string            `gorm:"type:varchar(36);not null;index"`
	BuyerID        string            `gorm:"not null;index"`
	SellerID       string            `gorm:"not null;index"`
	TransportBidID *string           `gorm:"type:varchar(36)"`
	Status         TransactionStatus `gorm:"type:varchar(16);not null;default:pending"`
	CompletedAt    *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (TransactionHistory) TableName() string {
	return TableTransactions
}

func (t *TransactionHistory) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
