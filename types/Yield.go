package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProducerYield is a producer's announcement of an expected harvest.
type ProducerYield struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)"`
	UserID           string    `gorm:"not null;index"`
	CommodityName    string    `gorm:"not null;index"`
	CommodityUnit    string    `gorm:"not null"`
	ExpectedQuantity float64   `gorm:"not null"`
	ExpectedDate     time.Time `gorm:"not null"`
	ProducerName     string
	ProductImage     string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (ProducerYield) TableName() string {
	return TableYields
}

func (y *ProducerYield) BeforeCreate(tx *gorm.DB) error {
	if y.ID == "" {
		y.ID = uuid.NewString()
	}
	return nil
}
