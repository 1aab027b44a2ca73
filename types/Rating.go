package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingDirection string

const (
	BuyerToSeller RatingDirection = "buyer_to_seller"
	SellerToBuyer RatingDirection = "seller_to_buyer"
)

func (d RatingDirection) Valid() bool {
	return d == BuyerToSeller || d == SellerToBuyer
}

type Rating struct {
	ID                  string          `gorm:"primaryKey;type:varchar(36)"`
	TransactionID       string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_tx_rater_type"`
	RaterID             string          `gorm:"not null;uniqueIndex:idx_ratings_tx_rater_type"`
	RatedUserID         string          `gorm:"not null;index"`
	RatingType          RatingDirection `gorm:"type:varchar(32);not null;uniqueIndex:idx_ratings_tx_rater_type"`
	QualityRating       int             `gorm:"not null"`
	CommunicationRating int             `gorm:"not null"`
	TimelinessRating    int             `gorm:"not null"`
	OverallRating       float64         `gorm:"not null"`
	ReviewText          string          `gorm:"type:text"`
	CreatedAt           time.Time       `gorm:"autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime"`
}

func (Rating) TableName() string {
	return TableRatings
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// UserRatingStats is derived from ratings, never stored.
type UserRatingStats struct {
	UserID               string  `json:"user_id"`
	TotalRatings         int64   `json:"total_ratings"`
	AverageOverall       float64 `json:"average_overall"`
	AverageQuality       float64 `json:"average_quality"`
	AverageCommunication float64 `json:"average_communication"`
	AverageTimeliness    float64 `json:"average_timeliness"`
}
