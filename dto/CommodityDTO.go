package dto

import (
	"time"

	"github.com/mcmanyika/Musika/types"
)

type CommodityResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Unit        string             `json:"unit"`
	Price       float64            `json:"price"`
	PriceChange float64            `json:"priceChange"`
	History     []types.PricePoint `json:"history"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func ToCommodityResponses(in []types.Commodity) []CommodityResponse {
	out := make([]CommodityResponse, 0, len(in))
	for _, c := range in {
		history := c.History.Data()
		if history == nil {
			history = []types.PricePoint{}
		}
		out = append(out, CommodityResponse{
			ID:          c.ID,
			Name:        c.Name,
			Unit:        c.Unit,
			Price:       c.Price,
			PriceChange: c.PriceChange,
			History:     history,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out
}
