package market

import (
	"context"
	"strings"

	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingInput struct {
	TransactionID string
	Direction     types.RatingDirection
	Quality       int
	Communication int
	Timeliness    int
	Review        string
}

// OverallScore is the mean of the three component scores rounded to two
// decimal places, half away from zero.
func OverallScore(quality, communication, timeliness int) float64 {
	sum := decimal.NewFromInt(int64(quality + communication + timeliness))
	return sum.Div(decimal.NewFromInt(3)).Round(2).InexactFloat64()
}

func validateScore(field string, score int) error {
	if score < 1 || score > 5 {
		return invalid(field, "must be between 1 and 5")
	}
	return nil
}

func (in RatingInput) validate() error {
	if !in.Direction.Valid() {
		return invalid("ratingType", "unknown rating type %q", in.Direction)
	}
	if err := validateScore("qualityRating", in.Quality); err != nil {
		return err
	}
	if err := validateScore("communicationRating", in.Communication); err != nil {
		return err
	}
	return validateScore("timelinessRating", in.Timeliness)
}

// RateTransaction records the rater's scores for the other party of a
// delivered transaction. A rater has one rating per transaction and
// direction; rating again replaces the earlier scores.
func (s *Service) RateTransaction(ctx context.Context, rater Actor, in RatingInput) (*types.Rating, error) {
	if err := rater.check(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	t, err := s.GetTransaction(ctx, in.TransactionID)
	if err != nil {
		return nil, err
	}
	if t.Status != types.StatusDelivered {
		return nil, &ConflictError{Reason: "only delivered transactions can be rated"}
	}

	var rated string
	switch in.Direction {
	case types.BuyerToSeller:
		if rater.ID != t.BuyerID {
			return nil, &AuthorizationError{Reason: "only the buyer can rate the seller"}
		}
		rated = t.SellerID
	case types.SellerToBuyer:
		if rater.ID != t.SellerID {
			return nil, &AuthorizationError{Reason: "only the seller can rate the buyer"}
		}
		rated = t.BuyerID
	}

	rating := types.Rating{
		TransactionID:       t.ID,
		RaterID:             rater.ID,
		RatedUserID:         rated,
		RatingType:          in.Direction,
		QualityRating:       in.Quality,
		CommunicationRating: in.Communication,
		TimelinessRating:    in.Timeliness,
		OverallRating:       OverallScore(in.Quality, in.Communication, in.Timeliness),
		ReviewText:          strings.TrimSpace(in.Review),
	}

	var saved types.Rating
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "transaction_id"}, {Name: "rater_id"}, {Name: "rating_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quality_rating", "communication_rating", "timeliness_rating",
				"overall_rating", "review_text", "updated_at",
			}),
		}).Create(&rating).Error
		if err != nil {
			return err
		}
		return tx.Where("transaction_id = ? AND rater_id = ? AND rating_type = ?",
			rating.TransactionID, rating.RaterID, rating.RatingType).First(&saved).Error
	})
	if err != nil {
		return nil, remote("save rating", err)
	}

	s.publish(ctx, types.TableRatings, realtime.Insert|realtime.Update)
	return &saved, nil
}

func (s *Service) RatingsFor(ctx context.Context, userID string) ([]types.Rating, error) {
	var ratings []types.Rating
	if err := s.db.WithContext(ctx).Where("rated_user_id = ?", userID).Order("created_at DESC").Find(&ratings).Error; err != nil {
		return nil, remote("list ratings", err)
	}
	return ratings, nil
}
