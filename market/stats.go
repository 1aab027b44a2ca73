package market

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/types"
)

type ratingAggregateRow struct {
	RatedUserID          string
	TotalRatings         int64
	AverageOverall       *float64
	AverageQuality       *float64
	AverageCommunication *float64
	AverageTimeliness    *float64
}

const ratingAggregateSelect = "rated_user_id, COUNT(*) AS total_ratings, " +
	"AVG(overall_rating) AS average_overall, AVG(quality_rating) AS average_quality, " +
	"AVG(communication_rating) AS average_communication, AVG(timeliness_rating) AS average_timeliness"

func (r ratingAggregateRow) stats() types.UserRatingStats {
	deref := func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	}
	return types.UserRatingStats{
		UserID:               r.RatedUserID,
		TotalRatings:         r.TotalRatings,
		AverageOverall:       deref(r.AverageOverall),
		AverageQuality:       deref(r.AverageQuality),
		AverageCommunication: deref(r.AverageCommunication),
		AverageTimeliness:    deref(r.AverageTimeliness),
	}
}

// RatingStats aggregates a user's received ratings in the store. A failed
// read degrades to zero stats instead of failing the caller.
func (s *Service) RatingStats(ctx context.Context, userID string) types.UserRatingStats {
	var rows []ratingAggregateRow
	err := s.db.WithContext(ctx).Model(&types.Rating{}).
		Select(ratingAggregateSelect).
		Where("rated_user_id = ?", userID).
		Group("rated_user_id").
		Scan(&rows).Error
	if err != nil {
		log.Warnf("Failed to load rating stats for %s: %v", userID, err)
		return types.UserRatingStats{UserID: userID}
	}
	if len(rows) == 0 {
		return types.UserRatingStats{UserID: userID}
	}
	return rows[0].stats()
}

// RatingStatsFor aggregates stats for several users in one query. Users
// without ratings get zero stats.
func (s *Service) RatingStatsFor(ctx context.Context, userIDs []string) map[string]types.UserRatingStats {
	out := make(map[string]types.UserRatingStats, len(userIDs))
	for _, id := range userIDs {
		out[id] = types.UserRatingStats{UserID: id}
	}
	if len(userIDs) == 0 {
		return out
	}

	var rows []ratingAggregateRow
	err := s.db.WithContext(ctx).Model(&types.Rating{}).
		Select(ratingAggregateSelect).
		Where("rated_user_id IN ?", userIDs).
		Group("rated_user_id").
		Scan(&rows).Error
	if err != nil {
		log.Warnf("Failed to load rating stats for %d users: %v", len(userIDs), err)
		return out
	}
	for _, row := range rows {
		out[row.RatedUserID] = row.stats()
	}
	return out
}

// FoldRatingStats computes the same figures as RatingStats from ratings
// already in memory, in any order, using running means.
func FoldRatingStats(userID string, ratings []types.Rating) types.UserRatingStats {
	stats := types.UserRatingStats{UserID: userID}
	for _, r := range ratings {
		if r.RatedUserID != userID {
			continue
		}
		stats.TotalRatings++
		n := float64(stats.TotalRatings)
		stats.AverageOverall += (r.OverallRating - stats.AverageOverall) / n
		stats.AverageQuality += (float64(r.QualityRating) - stats.AverageQuality) / n
		stats.AverageCommunication += (float64(r.CommunicationRating) - stats.AverageCommunication) / n
		stats.AverageTimeliness += (float64(r.TimelinessRating) - stats.AverageTimeliness) / n
	}
	return stats
}
