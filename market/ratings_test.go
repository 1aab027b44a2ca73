package market

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mcmanyika/Musika/db/dbtest"
	"github.com/mcmanyika/Musika/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestOverallScore(t *testing.T) {
	cases := []struct {
		q, c, tl int
		want     float64
	}{
		{1, 1, 1, 1.00},
		{5, 5, 5, 5.00},
		{3, 4, 5, 4.00},
		{5, 4, 5, 4.67},
		{1, 1, 2, 1.33},
		{4, 5, 5, 4.67},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OverallScore(tc.q, tc.c, tc.tl), "%d,%d,%d", tc.q, tc.c, tc.tl)
	}
}

func TestRateTransaction_Validation(t *testing.T) {
	f := newFixture(t)
	tx := f.delivered(t)

	bad := []RatingInput{
		{TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 0, Communication: 3, Timeliness: 3},
		{TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 3, Communication: 6, Timeliness: 3},
		{TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 3, Communication: 3, Timeliness: -1},
		{TransactionID: tx.ID, Direction: "sideways", Quality: 3, Communication: 3, Timeliness: 3},
	}
	for i, in := range bad {
		_, err := f.svc.RateTransaction(f.ctx, buyer, in)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "case %d", i)
	}
	assert.Zero(t, f.count(t, &types.Rating{}))
}

func TestRateTransaction_Eligibility(t *testing.T) {
	f := newFixture(t)
	y := f.yield(t, 100)
	o := f.offer(t, y.ID, 40, 2)
	b := f.bid(t, transporter, o.ID, 50)
	tx, err := f.svc.AcceptTransportBid(f.ctx, producer, b.ID)
	require.NoError(t, err)

	in := RatingInput{TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 4, Communication: 4, Timeliness: 4}

	_, err = f.svc.RateTransaction(f.ctx, buyer, in)
	var cerr *ConflictError
	assert.ErrorAs(t, err, &cerr, "pending transactions cannot be rated")

	_, err = f.svc.AdvanceTransaction(f.ctx, tx.ID, types.StatusInTransit)
	require.NoError(t, err)
	_, err = f.svc.AdvanceTransaction(f.ctx, tx.ID, types.StatusDelivered)
	require.NoError(t, err)

	var aerr *AuthorizationError
	_, err = f.svc.RateTransaction(f.ctx, producer, in)
	assert.ErrorAs(t, err, &aerr)

	in.Direction = types.SellerToBuyer
	_, err = f.svc.RateTransaction(f.ctx, buyer, in)
	assert.ErrorAs(t, err, &aerr)

	in.TransactionID = "missing"
	_, err = f.svc.RateTransaction(f.ctx, producer, in)
	var nerr *NotFoundError
	assert.ErrorAs(t, err, &nerr)

	assert.Zero(t, f.count(t, &types.Rating{}))
}

func TestRateTransaction_UpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	tx := f.delivered(t)

	first, err := f.svc.RateTransaction(f.ctx, buyer, RatingInput{
		TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 2, Communication: 2, Timeliness: 2, Review: "late",
	})
	require.NoError(t, err)
	assert.Equal(t, producer.ID, first.RatedUserID)

	second, err := f.svc.RateTransaction(f.ctx, buyer, RatingInput{
		TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 5, Communication: 4, Timeliness: 5, Review: "  sorted out  ",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4.67, second.OverallRating)
	assert.Equal(t, "sorted out", second.ReviewText)
	assert.Equal(t, int64(1), f.count(t, &types.Rating{}))

	// the other direction is a separate rating
	back, err := f.svc.RateTransaction(f.ctx, producer, RatingInput{
		TransactionID: tx.ID, Direction: types.SellerToBuyer, Quality: 3, Communication: 4, Timeliness: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, back.RatedUserID)
	assert.Equal(t, 4.0, back.OverallRating)
	assert.Equal(t, int64(2), f.count(t, &types.Rating{}))

	ratings, err := f.svc.RatingsFor(f.ctx, producer.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].QualityRating)
}

func TestRatingStats(t *testing.T) {
	f := newFixture(t)

	empty := f.svc.RatingStats(f.ctx, "nobody")
	assert.Equal(t, types.UserRatingStats{UserID: "nobody"}, empty)
	assert.Equal(t, empty, FoldRatingStats("nobody", nil))

	tx := f.delivered(t)
	_, err := f.svc.RateTransaction(f.ctx, buyer, RatingInput{
		TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 3, Communication: 4, Timeliness: 5,
	})
	require.NoError(t, err)

	stats := f.svc.RatingStats(f.ctx, producer.ID)
	assert.Equal(t, int64(1), stats.TotalRatings)
	assert.InDelta(t, 4.0, stats.AverageOverall, 1e-9)
	assert.InDelta(t, 3.0, stats.AverageQuality, 1e-9)
	assert.InDelta(t, 4.0, stats.AverageCommunication, 1e-9)
	assert.InDelta(t, 5.0, stats.AverageTimeliness, 1e-9)

	many := f.svc.RatingStatsFor(f.ctx, []string{producer.ID, buyer.ID})
	assert.Equal(t, stats, many[producer.ID])
	assert.Equal(t, types.UserRatingStats{UserID: buyer.ID}, many[buyer.ID])
}

// The store's aggregate and the in-memory fold agree for any rating set.
func TestRatingStats_AggregateMatchesFold(t *testing.T) {
	gdb := dbtest.Open(t)
	svc := NewService(gdb)

	rapid.Check(t, func(rt *rapid.T) {
		user := uuid.NewString()
		n := rapid.IntRange(1, 25).Draw(rt, "n")

		var ratings []types.Rating
		for i := 0; i < n; i++ {
			q := rapid.IntRange(1, 5).Draw(rt, fmt.Sprintf("quality-%d", i))
			c := rapid.IntRange(1, 5).Draw(rt, fmt.Sprintf("communication-%d", i))
			tl := rapid.IntRange(1, 5).Draw(rt, fmt.Sprintf("timeliness-%d", i))
			rated := user
			if rapid.IntRange(0, 4).Draw(rt, fmt.Sprintf("other-%d", i)) == 0 {
				rated = "someone-else"
			}
			ratings = append(ratings, types.Rating{
				TransactionID:       uuid.NewString(),
				RaterID:             "rater",
				RatedUserID:         rated,
				RatingType:          types.BuyerToSeller,
				QualityRating:       q,
				CommunicationRating: c,
				TimelinessRating:    tl,
				OverallRating:       OverallScore(q, c, tl),
			})
		}
		if err := gdb.Create(&ratings).Error; err != nil {
			rt.Fatalf("insert ratings: %v", err)
		}

		shuffled := rapid.Permutation(ratings).Draw(rt, "order")
		folded := FoldRatingStats(user, shuffled)
		aggregated := svc.RatingStats(context.Background(), user)

		if folded.TotalRatings != aggregated.TotalRatings {
			rt.Fatalf("total: fold %d, aggregate %d", folded.TotalRatings, aggregated.TotalRatings)
		}
		for name, pair := range map[string][2]float64{
			"overall":       {folded.AverageOverall, aggregated.AverageOverall},
			"quality":       {folded.AverageQuality, aggregated.AverageQuality},
			"communication": {folded.AverageCommunication, aggregated.AverageCommunication},
			"timeliness":    {folded.AverageTimeliness, aggregated.AverageTimeliness},
		} {
			if diff := pair[0] - pair[1]; diff > 1e-9 || diff < -1e-9 {
				rt.Fatalf("%s: fold %v, aggregate %v", name, pair[0], pair[1])
			}
		}
	})
}

// Maize: 100 units posted, 40 offered at $2, $50 transport bid accepted,
// delivered, then rated 5/4/5 by the buyer.
func TestMaizeDealEndToEnd(t *testing.T) {
	f := newFixture(t)

	y := f.yield(t, 100)
	o := f.offer(t, y.ID, 40, 2)
	b := f.bid(t, transporter, o.ID, 50)

	offers, err := f.svc.OffersForYield(f.ctx, y.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, offers.OfferCount)
	assert.Equal(t, 2.0, offers.HighestOffer)

	bids, err := f.svc.BidsForOrder(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, bids.BidCount)
	assert.Equal(t, 50.0, bids.LowestBid)

	tx, err := f.svc.AcceptTransportBid(f.ctx, producer, b.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, tx.Status)
	assert.Equal(t, buyer.ID, tx.BuyerID)
	assert.Equal(t, producer.ID, tx.SellerID)

	_, err = f.svc.AdvanceTransaction(f.ctx, tx.ID, types.StatusInTransit)
	require.NoError(t, err)
	_, err = f.svc.AdvanceTransaction(f.ctx, tx.ID, types.StatusDelivered)
	require.NoError(t, err)

	rating, err := f.svc.RateTransaction(f.ctx, buyer, RatingInput{
		TransactionID: tx.ID, Direction: types.BuyerToSeller, Quality: 5, Communication: 4, Timeliness: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.67, rating.OverallRating)

	stats := f.svc.RatingStats(f.ctx, producer.ID)
	assert.Equal(t, int64(1), stats.TotalRatings)
	assert.InDelta(t, 4.67, stats.AverageOverall, 1e-9)
}

// 150 units offered against a 100 unit yield is rejected and nothing is stored.
func TestOversizedOfferScenario(t *testing.T) {
	f := newFixture(t)
	y := f.yield(t, 100)

	_, err := f.svc.PostOffer(f.ctx, buyer, OfferInput{YieldID: y.ID, Quantity: 150, Price: 2})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	offers, err := f.svc.OffersForYield(f.ctx, y.ID)
	require.NoError(t, err)
	assert.Zero(t, offers.OfferCount)
}
