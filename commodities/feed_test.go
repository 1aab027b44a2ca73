package commodities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mcmanyika/Musika/db/dbtest"
	"github.com/mcmanyika/Musika/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	name   string
	quotes []Quote
	err    error
	calls  int
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(ctx context.Context) ([]Quote, error) {
	s.calls++
	return s.quotes, s.err
}

func TestRefresh_FallsBackToNextSource(t *testing.T) {
	gdb := dbtest.Open(t)
	broken := &staticSource{name: "broken", err: errors.New("quota exceeded")}
	seed := NewSeedSource()
	seed.now = func() time.Time { return time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC) }

	feed := NewFeed(gdb, nil, broken, seed)
	n, err := feed.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(seedCommodities), n)
	assert.Equal(t, 1, broken.calls)

	var tomatoes types.Commodity
	require.NoError(t, gdb.First(&tomatoes, "id = ?", "tomatoes").Error)
	assert.Equal(t, 7.50, tomatoes.Price)
	assert.Equal(t, 0.25, tomatoes.PriceChange)
	history := tomatoes.History.Data()
	require.Len(t, history, 7)
	assert.Equal(t, "Jun 10", history[6].Date)
	assert.Equal(t, "Jun 4", history[0].Date)
}

func TestRefresh_UpsertsAndSlugs(t *testing.T) {
	gdb := dbtest.Open(t)
	src := &staticSource{name: "live", quotes: []Quote{
		{Name: "Sweet Potatoes", Unit: "bucket", Price: 5},
		{ID: "Sweet Potatoes", Name: "Sweet Potatoes", Unit: "bucket", Price: 6},
		{Name: "", Price: 1},
	}}
	feed := NewFeed(gdb, nil, src)

	n, err := feed.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	src.quotes = []Quote{{ID: "sweet-potatoes", Name: "Sweet Potatoes", Unit: "bucket", Price: 5.5, PriceChange: 0.5}}
	_, err = feed.Refresh(context.Background())
	require.NoError(t, err)

	var all []types.Commodity
	require.NoError(t, gdb.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, "sweet-potatoes", all[0].ID)
	assert.Equal(t, 5.5, all[0].Price)
}

func TestRefresh_AllSourcesFail(t *testing.T) {
	gdb := dbtest.Open(t)
	feed := NewFeed(gdb, nil,
		&staticSource{name: "a", err: errors.New("down")},
		&staticSource{name: "b"},
	)
	_, err := feed.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Contains(t, err.Error(), "no quotes returned")

	_, err = NewFeed(gdb, nil).Refresh(context.Background())
	assert.Error(t, err)
}

func TestEnsureLoaded(t *testing.T) {
	gdb := dbtest.Open(t)
	src := &staticSource{name: "live", quotes: []Quote{{Name: "Onions", Unit: "pocket", Price: 12}}}
	feed := NewFeed(gdb, nil, src)

	require.NoError(t, feed.EnsureLoaded(context.Background()))
	require.NoError(t, feed.EnsureLoaded(context.Background()))
	assert.Equal(t, 1, src.calls)
}

func TestList(t *testing.T) {
	gdb := dbtest.Open(t)
	feed := NewFeed(gdb, nil, &staticSource{name: "live", quotes: []Quote{
		{Name: "Tomatoes", Unit: "bucket", Price: 7.5, PriceChange: 0.25},
		{Name: "Onions", Unit: "pocket", Price: 12, PriceChange: -0.5},
		{Name: "Maize Meal", Unit: "bag", Price: 8, PriceChange: 0},
	}})
	_, err := feed.Refresh(context.Background())
	require.NoError(t, err)

	names := func(cs []types.Commodity) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	got, err := feed.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Maize Meal", "Onions", "Tomatoes"}, names(got))

	got, err = feed.List(context.Background(), ListQuery{SortKey: "price", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Onions", "Maize Meal", "Tomatoes"}, names(got))

	got, err = feed.List(context.Background(), ListQuery{SortKey: "priceChange"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Onions", "Maize Meal", "Tomatoes"}, names(got))

	got, err = feed.List(context.Background(), ListQuery{Search: "ON"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Onions"}, names(got))
}

func TestParseQuotes(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.Text(`[{"id":"covo","name":"Covo","unit":"bundle","price":0.5,"priceChange":0,`),
			genai.Text(`"history":[{"date":"Jun 10","price":0.5}]}]`),
		}},
	}}}
	quotes, err := parseQuotes(resp)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Covo", quotes[0].Name)
	assert.Len(t, quotes[0].History, 1)

	_, err = parseQuotes(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = parseQuotes(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"not":"an array"}`)}},
	}}})
	assert.Error(t, err)
}

func TestNewGeminiSource_RequiresKey(t *testing.T) {
	_, err := NewGeminiSource(context.Background(), "", []string{"gemini-1.5-flash"})
	assert.Error(t, err)
	_, err = NewGeminiSource(context.Background(), "key", nil)
	assert.Error(t, err)
}
