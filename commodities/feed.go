// Package commodities maintains the commodity reference prices shown on the
// market board and used to resolve yields and orders.
package commodities

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gosimple/slug"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Quote struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Unit        string             `json:"unit"`
	Price       float64            `json:"price"`
	PriceChange float64            `json:"priceChange"`
	History     []types.PricePoint `json:"history"`
}

type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Quote, error)
}

type Publisher interface {
	Publish(ctx context.Context, table string, event realtime.Event)
}

type Feed struct {
	db        *gorm.DB
	sources   []Source
	publisher Publisher
}

// NewFeed tries sources in order on every refresh; the first one that
// returns quotes wins.
func NewFeed(gdb *gorm.DB, publisher Publisher, sources ...Source) *Feed {
	return &Feed{db: gdb, sources: sources, publisher: publisher}
}

func normalize(q Quote) (types.Commodity, bool) {
	name := strings.TrimSpace(q.Name)
	if name == "" || q.Price < 0 {
		return types.Commodity{}, false
	}
	id := slug.Make(q.ID)
	if id == "" {
		id = slug.Make(name)
	}
	return types.Commodity{
		ID:          id,
		Name:        name,
		Unit:        strings.TrimSpace(q.Unit),
		Price:       q.Price,
		PriceChange: q.PriceChange,
		History:     datatypes.NewJSONType(q.History),
	}, true
}

// Refresh fetches quotes and upserts them by id. It returns the number of
// commodities written.
func (f *Feed) Refresh(ctx context.Context) (int, error) {
	var errs []error
	for _, src := range f.sources {
		quotes, err := src.Fetch(ctx)
		if err == nil && len(quotes) == 0 {
			err = errors.New("no quotes returned")
		}
		if err != nil {
			log.Warnf("Commodity source %s failed: %v", src.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		var rows []types.Commodity
		seen := make(map[string]bool, len(quotes))
		for _, q := range quotes {
			if c, ok := normalize(q); ok && !seen[c.ID] {
				seen[c.ID] = true
				rows = append(rows, c)
			}
		}
		if len(rows) == 0 {
			errs = append(errs, fmt.Errorf("%s: no usable quotes", src.Name()))
			continue
		}

		err = f.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "unit", "price", "price_change", "history", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			return 0, fmt.Errorf("failed to store commodities: %w", err)
		}

		log.Infof("Loaded %d commodities from %s", len(rows), src.Name())
		if f.publisher != nil {
			f.publisher.Publish(ctx, types.TableCommodities, realtime.Update)
		}
		return len(rows), nil
	}
	if len(errs) == 0 {
		return 0, errors.New("no commodity sources configured")
	}
	return 0, errors.Join(errs...)
}

// EnsureLoaded refreshes only when no commodities are stored yet.
func (f *Feed) EnsureLoaded(ctx context.Context) error {
	var n int64
	if err := f.db.WithContext(ctx).Model(&types.Commodity{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := f.Refresh(ctx)
	return err
}

// ListQuery filters by name and sorts by name, price or priceChange.
type ListQuery struct {
	Search     string
	SortKey    string
	Descending bool
}

func (f *Feed) List(ctx context.Context, q ListQuery) ([]types.Commodity, error) {
	var out []types.Commodity
	if err := f.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	if search != "" {
		filtered := out[:0]
		for _, c := range out {
			if strings.Contains(strings.ToLower(c.Name), search) {
				filtered = append(filtered, c)
			}
		}
		out = filtered
	}

	less := func(a, b types.Commodity) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	switch q.SortKey {
	case "price":
		less = func(a, b types.Commodity) bool { return a.Price < b.Price }
	case "priceChange":
		less = func(a, b types.Commodity) bool { return a.PriceChange < b.PriceChange }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}
