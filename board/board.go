// Package board keeps an in-memory snapshot of the open market (yields,
// orders and transport bids) keyed by id. Each table is re-read in full
// whenever the realtime hub reports a change to it.
package board

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
)

type Source interface {
	ListYields(ctx context.Context) ([]types.ProducerYield, error)
	ListOrders(ctx context.Context) ([]types.BuyerOrder, error)
	ListBids(ctx context.Context) ([]types.TransportBid, error)
}

type Board struct {
	src     Source
	timeout time.Duration

	mu     sync.RWMutex
	yields map[string]types.ProducerYield
	orders map[string]types.BuyerOrder
	bids   map[string]types.TransportBid

	hub  *realtime.Hub
	subs []*realtime.Subscription
}

func New(src Source) *Board {
	return &Board{
		src:     src,
		timeout: 10 * time.Second,
		yields:  make(map[string]types.ProducerYield),
		orders:  make(map[string]types.BuyerOrder),
		bids:    make(map[string]types.TransportBid),
	}
}

// Attach subscribes the board to changes on its tables.
func (b *Board) Attach(hub *realtime.Hub) {
	b.hub = hub
	for _, table := range []string{types.TableYields, types.TableOrders, types.TableBids} {
		b.subs = append(b.subs, hub.Subscribe(table, realtime.All, func(c realtime.Change) {
			ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()
			if err := b.RefreshTable(ctx, c.Table); err != nil {
				log.Warnf("Board refresh of %s failed: %v", c.Table, err)
			}
		}))
	}
}

func (b *Board) Detach() {
	if b.hub == nil {
		return
	}
	for _, sub := range b.subs {
		b.hub.Unsubscribe(sub)
	}
	b.subs = nil
}

func (b *Board) Refresh(ctx context.Context) error {
	for _, table := range []string{types.TableYields, types.TableOrders, types.TableBids} {
		if err := b.RefreshTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

// RefreshTable replaces the snapshot of one table. Refreshing twice is harmless.
func (b *Board) RefreshTable(ctx context.Context, table string) error {
	switch table {
	case types.TableYields:
		rows, err := b.src.ListYields(ctx)
		if err != nil {
			return err
		}
		next := make(map[string]types.ProducerYield, len(rows))
		for _, r := range rows {
			next[r.ID] = r
		}
		b.mu.Lock()
		b.yields = next
		b.mu.Unlock()
	case types.TableOrders:
		rows, err := b.src.ListOrders(ctx)
		if err != nil {
			return err
		}
		next := make(map[string]types.BuyerOrder, len(rows))
		for _, r := range rows {
			next[r.ID] = r
		}
		b.mu.Lock()
		b.orders = next
		b.mu.Unlock()
	case types.TableBids:
		rows, err := b.src.ListBids(ctx)
		if err != nil {
			return err
		}
		next := make(map[string]types.TransportBid, len(rows))
		for _, r := range rows {
			next[r.ID] = r
		}
		b.mu.Lock()
		b.bids = next
		b.mu.Unlock()
	}
	return nil
}

func matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func (b *Board) orderList() []types.BuyerOrder {
	out := make([]types.BuyerOrder, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	return out
}

func (b *Board) bidList() []types.TransportBid {
	out := make([]types.TransportBid, 0, len(b.bids))
	for _, bid := range b.bids {
		out = append(out, bid)
	}
	return out
}

// Yields lists yields newest first with their offer aggregates. query
// matches commodity or producer name, case-insensitively.
func (b *Board) Yields(query string) []market.YieldSummary {
	query = strings.ToLower(strings.TrimSpace(query))

	b.mu.RLock()
	defer b.mu.RUnlock()

	orders := b.orderList()
	out := make([]market.YieldSummary, 0, len(b.yields))
	for _, y := range b.yields {
		if !matches(query, y.CommodityName, y.ProducerName) {
			continue
		}
		out = append(out, market.YieldSummary{Yield: y, OfferAggregate: market.OfferStats(y.ID, orders)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Yield.CreatedAt.After(out[j].Yield.CreatedAt)
	})
	return out
}

// Orders lists general orders (offers excluded unless withOffers) newest
// first with their bid aggregates. query matches commodity or buyer name.
func (b *Board) Orders(query string, withOffers bool) []market.OrderSummary {
	query = strings.ToLower(strings.TrimSpace(query))

	b.mu.RLock()
	defer b.mu.RUnlock()

	bids := b.bidList()
	out := make([]market.OrderSummary, 0, len(b.orders))
	for _, o := range b.orders {
		if o.IsOffer() && !withOffers {
			continue
		}
		if !matches(query, o.CommodityName, o.BuyerName, o.ProducerName) {
			continue
		}
		out = append(out, market.OrderSummary{Order: o, BidAggregate: market.BidStats(o.ID, bids)})
	}
	sortOrders(out)
	return out
}

// Deals lists offers (orders placed against a yield), the ones transporters bid on.
func (b *Board) Deals(query string) []market.OrderSummary {
	query = strings.ToLower(strings.TrimSpace(query))

	b.mu.RLock()
	defer b.mu.RUnlock()

	bids := b.bidList()
	var out []market.OrderSummary
	for _, o := range b.orders {
		if !o.IsOffer() || !matches(query, o.CommodityName, o.BuyerName, o.ProducerName) {
			continue
		}
		out = append(out, market.OrderSummary{Order: o, BidAggregate: market.BidStats(o.ID, bids)})
	}
	sortOrders(out)
	return out
}

func sortOrders(out []market.OrderSummary) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].Order.CreatedAt.After(out[j].Order.CreatedAt)
	})
}

// BidListing is a transporter's bid with the order and, for offers, the
// yield it was placed against. Order is zero if the order has gone.
type BidListing struct {
	Bid   types.TransportBid
	Order types.BuyerOrder
	Yield *types.ProducerYield
}

// Listings are the entries one user posted: yields as producer, orders and
// offers as buyer, bids as transporter. Each list is newest first.
type Listings struct {
	Yields []market.YieldSummary
	Orders []market.OrderSummary
	Bids   []BidListing
}

// UserIDs returns every party appearing in the listings, each once.
func (l Listings) UserIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, y := range l.Yields {
		add(y.Yield.UserID)
	}
	for _, o := range l.Orders {
		add(o.Order.UserID)
	}
	for _, bl := range l.Bids {
		add(bl.Bid.UserID)
		add(bl.Order.UserID)
		if bl.Yield != nil {
			add(bl.Yield.UserID)
		}
	}
	return ids
}

func (b *Board) Mine(userID string) Listings {
	b.mu.RLock()
	defer b.mu.RUnlock()

	orders := b.orderList()
	bids := b.bidList()
	out := Listings{
		Yields: make([]market.YieldSummary, 0),
		Orders: make([]market.OrderSummary, 0),
		Bids:   make([]BidListing, 0),
	}
	if userID == "" {
		return out
	}

	for _, y := range b.yields {
		if y.UserID == userID {
			out.Yields = append(out.Yields, market.YieldSummary{Yield: y, OfferAggregate: market.OfferStats(y.ID, orders)})
		}
	}
	for _, o := range orders {
		if o.UserID == userID {
			out.Orders = append(out.Orders, market.OrderSummary{Order: o, BidAggregate: market.BidStats(o.ID, bids)})
		}
	}
	for _, bid := range bids {
		if bid.UserID != userID {
			continue
		}
		bl := BidListing{Bid: bid, Order: b.orders[bid.OrderID]}
		if bl.Order.YieldID != nil {
			if y, ok := b.yields[*bl.Order.YieldID]; ok {
				bl.Yield = &y
			}
		}
		out.Bids = append(out.Bids, bl)
	}

	sort.Slice(out.Yields, func(i, j int) bool {
		return out.Yields[i].Yield.CreatedAt.After(out.Yields[j].Yield.CreatedAt)
	})
	sortOrders(out.Orders)
	sort.Slice(out.Bids, func(i, j int) bool {
		return out.Bids[i].Bid.CreatedAt.After(out.Bids[j].Bid.CreatedAt)
	})
	return out
}

func (b *Board) Counts() (yields, orders, bids int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.yields), len(b.orders), len(b.bids)
}
