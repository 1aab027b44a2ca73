package commodities

import (
	"context"
	"time"

	"github.com/mcmanyika/Musika/types"
)

// SeedSource serves a fixed list of staple prices. It is the last resort
// when no live source is available.
type SeedSource struct {
	now func() time.Time
}

func NewSeedSource() *SeedSource {
	return &SeedSource{now: time.Now}
}

func (s *SeedSource) Name() string {
	return "seed"
}

type seedCommodity struct {
	id, name, unit string
	change         float64
	history        [7]float64
}

var seedCommodities = []seedCommodity{
	{"tomatoes", "Tomatoes", "bucket", 0.25, [7]float64{7.10, 7.20, 7.00, 7.30, 7.25, 7.25, 7.50}},
	{"onions", "Onions", "10kg pocket", -0.50, [7]float64{11.80, 12.10, 12.30, 12.50, 12.60, 12.50, 12.00}},
	{"maize-meal", "Maize Meal", "10kg bag", 0.00, [7]float64{8.00, 7.90, 8.00, 8.10, 8.00, 8.00, 8.00}},
	{"maize", "Maize", "kg", 0.01, [7]float64{0.33, 0.34, 0.34, 0.33, 0.34, 0.34, 0.35}},
	{"potatoes", "Potatoes", "15kg pocket", 0.50, [7]float64{9.00, 9.00, 9.25, 9.25, 9.50, 9.50, 10.00}},
	{"covo", "Covo", "bundle", 0.00, [7]float64{0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50}},
	{"cabbage", "Cabbage", "head", -0.10, [7]float64{1.00, 1.00, 0.90, 1.00, 1.00, 1.00, 0.90}},
	{"bananas", "Bananas", "dozen", 0.20, [7]float64{1.80, 1.80, 1.90, 1.80, 1.80, 1.80, 2.00}},
}

func (s *SeedSource) Fetch(ctx context.Context) ([]Quote, error) {
	today := s.now()
	quotes := make([]Quote, 0, len(seedCommodities))
	for _, c := range seedCommodities {
		history := make([]types.PricePoint, 0, len(c.history))
		for i, price := range c.history {
			day := today.AddDate(0, 0, i-len(c.history)+1)
			history = append(history, types.PricePoint{Date: day.Format("Jan 2"), Price: price})
		}
		quotes = append(quotes, Quote{
			ID:          c.id,
			Name:        c.name,
			Unit:        c.unit,
			Price:       c.history[len(c.history)-1],
			PriceChange: c.change,
			History:     history,
		})
	}
	return quotes, nil
}
