package dto

import (
	"time"

	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/types"
)

type TransactionResponse struct {
	ID             string                  `json:"id"`
	OrderID        string                  `json:"order_id"`
	YieldID        string                  `json:"yield_id"`
	BuyerID        string                  `json:"buyer_id"`
	SellerID       string                  `json:"seller_id"`
	TransportBidID *string                 `json:"transport_bid_id"`
	Status         types.TransactionStatus `json:"status"`
	CompletedAt    *time.Time              `json:"completed_at"`
	CreatedAt      time.Time               `json:"created_at"`
}

type CreateRatingRequest struct {
	RatingType          string `json:"rating_type" validate:"required,oneof=buyer_to_seller seller_to_buyer"`
	QualityRating       int    `json:"quality_rating" validate:"required,min=1,max=5"`
	CommunicationRating int    `json:"communication_rating" validate:"required,min=1,max=5"`
	TimelinessRating    int    `json:"timeliness_rating" validate:"required,min=1,max=5"`
	ReviewText          string `json:"review_text" validate:"max=2000"`
}

func (r CreateRatingRequest) ToInput(transactionID string) market.RatingInput {
	return market.RatingInput{
		TransactionID: transactionID,
		Direction:     types.RatingDirection(r.RatingType),
		Quality:       r.QualityRating,
		Communication: r.CommunicationRating,
		Timeliness:    r.TimelinessRating,
		Review:        r.ReviewText,
	}
}

type RatingResponse struct {
	ID                  string                `json:"id"`
	TransactionID       string                `json:"transaction_id"`
	RaterID             string                `json:"rater_id"`
	RatedUserID         string                `json:"rated_user_id"`
	RatingType          types.RatingDirection `json:"rating_type"`
	QualityRating       int                   `json:"quality_rating"`
	CommunicationRating int                   `json:"communication_rating"`
	TimelinessRating    int                   `json:"timeliness_rating"`
	OverallRating       float64               `json:"overall_rating"`
	ReviewText          string                `json:"review_text,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

func ToTransactionResponse(t types.TransactionHistory) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		OrderID:        t.OrderID,
		YieldID:        t.YieldID,
		BuyerID:        t.BuyerID,
		SellerID:       t.SellerID,
		TransportBidID: t.TransportBidID,
		Status:         t.Status,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      t.CreatedAt,
	}
}

func ToTransactionResponses(in []types.TransactionHistory) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(in))
	for _, t := range in {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}

func ToRatingResponse(r types.Rating) RatingResponse {
	return RatingResponse{
		ID:                  r.ID,
		TransactionID:       r.TransactionID,
		RaterID:             r.RaterID,
		RatedUserID:         r.RatedUserID,
		RatingType:          r.RatingType,
		QualityRating:       r.QualityRating,
		CommunicationRating: r.CommunicationRating,
		TimelinessRating:    r.TimelinessRating,
		OverallRating:       r.OverallRating,
		ReviewText:          r.ReviewText,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func ToRatingResponses(in []types.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(in))
	for _, r := range in {
		out = append(out, ToRatingResponse(r))
	}
	return out
}
