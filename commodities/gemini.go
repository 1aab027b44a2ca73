package commodities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiPrompt = `You are a market analyst specializing in Zimbabwean agriculture. Generate a realistic list of 12 common commodities found at Mbare Musika in Harare.
For each commodity, provide its details in USD. The list should include local staples like maize meal, vegetables (tomatoes, onions, leafy greens), fruits, and other common goods.
The price history should span the last 7 days, with the most recent date being today.
Ensure the data is varied and reflects typical local market fluctuations.`

var quoteSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":          {Type: genai.TypeString, Description: "A unique slug-like ID"},
			"name":        {Type: genai.TypeString, Description: "Commodity name"},
			"unit":        {Type: genai.TypeString, Description: "Unit of measurement (e.g., 'per bucket', 'per bundle')"},
			"price":       {Type: genai.TypeNumber, Description: "Current price in USD"},
			"priceChange": {Type: genai.TypeNumber, Description: "Price change from previous day"},
			"history": {
				Type:        genai.TypeArray,
				Description: "Price history for the last 7 days",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date":  {Type: genai.TypeString, Description: "Date in 'MMM D' format"},
						"price": {Type: genai.TypeNumber, Description: "Price on that date"},
					},
					Required: []string{"date", "price"},
				},
			},
		},
		Required: []string{"id", "name", "unit", "price", "priceChange", "history"},
	},
}

// GeminiSource asks a Gemini model for current market prices, falling back
// through the configured model names.
type GeminiSource struct {
	client *genai.Client
	models []string
}

func NewGeminiSource(ctx context.Context, apiKey string, models []string) (*GeminiSource, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if len(models) == 0 {
		return nil, errors.New("no Gemini models configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiSource{client: client, models: models}, nil
}

func (g *GeminiSource) Name() string {
	return "gemini"
}

func (g *GeminiSource) Close() error {
	return g.client.Close()
}

func (g *GeminiSource) Fetch(ctx context.Context) ([]Quote, error) {
	var lastErr error
	for _, name := range g.models {
		model := g.client.GenerativeModel(name)
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = quoteSchema

		resp, err := model.GenerateContent(ctx, genai.Text(geminiPrompt))
		if err != nil {
			log.Warnf("Gemini model %s failed: %v", name, err)
			lastErr = err
			continue
		}
		quotes, err := parseQuotes(resp)
		if err != nil {
			log.Warnf("Gemini model %s returned unusable data: %v", name, err)
			lastErr = err
			continue
		}
		return quotes, nil
	}
	if lastErr == nil {
		lastErr = errors.New("all models failed")
	}
	return nil, fmt.Errorf("failed to fetch commodity prices: %w", lastErr)
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		// first candidate only
		break
	}
	return strings.TrimSpace(b.String())
}

func parseQuotes(resp *genai.GenerateContentResponse) ([]Quote, error) {
	text := responseText(resp)
	if text == "" {
		return nil, errors.New("empty response")
	}
	var quotes []Quote
	if err := json.Unmarshal([]byte(text), &quotes); err != nil {
		return nil, fmt.Errorf("response is not a JSON array of commodities: %w", err)
	}
	return quotes, nil
}
