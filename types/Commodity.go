package types

import (
	"time"

	"gorm.io/datatypes"
)

type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Commodity is market reference data written only by the commodity feed.
type Commodity struct {
	ID          string                           `gorm:"primaryKey;type:varchar(64)"`
	Name        string                           `gorm:"not null;index"`
	Unit        string                           `gorm:"not null"`
	Price       float64                          `gorm:"not null;default:0"`
	PriceChange float64                          `gorm:"not null;default:0"`
	History     datatypes.JSONType[[]PricePoint] `gorm:"type:json"`
	UpdatedAt   time.Time                        `gorm:"autoUpdateTime"`
}

func (Commodity) TableName() string {
	return TableCommodities
}
