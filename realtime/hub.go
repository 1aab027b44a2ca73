// Package realtime fans out table change notifications. A notification only
// says that something changed; subscribers re-read whatever they display.
package realtime

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type Event uint8

const (
	Insert Event = 1 << iota
	Update
	Delete

	All = Insert | Update | Delete
)

func (e Event) String() string {
	switch e {
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	}
	return "*"
}

type Change struct {
	Table  string `json:"table"`
	Event  Event  `json:"event"`
	Origin string `json:"origin,omitempty"`
}

type Handler func(Change)

// Relay forwards locally published changes to other service instances.
type Relay interface {
	Forward(ctx context.Context, change Change) error
}

type Subscription struct {
	id      uint64
	table   string
	mask    Event
	handler Handler
	queue   chan Change
	done    chan struct{}
	once    sync.Once
}

func (s *Subscription) Table() string {
	return s.table
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case c := <-s.queue:
			s.handler(c)
		}
	}
}

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// offer never blocks the publisher. A full queue already holds a pending
// signal, and every signal triggers a full re-read, so the extra one is dropped.
func (s *Subscription) offer(c Change) {
	select {
	case s.queue <- c:
	default:
	}
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	origin string
	relay  Relay
}

func NewHub() *Hub {
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		origin: uuid.NewString(),
	}
}

// Origin identifies this hub on relayed messages.
func (h *Hub) Origin() string {
	return h.origin
}

func (h *Hub) SetRelay(r Relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = r
}

// Subscribe registers fn for changes on table whose event is in mask.
// Handlers run on a goroutine owned by the subscription, one change at a time.
func (h *Hub) Subscribe(table string, mask Event, fn Handler) *Subscription {
	h.mu.Lock()
	h.nextID++
	sub := &Subscription{
		id:      h.nextID,
		table:   table,
		mask:    mask,
		handler: fn,
		queue:   make(chan Change, 16),
		done:    make(chan struct{}),
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	go sub.run()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()
	sub.stop()
}

// Publish delivers a locally originated change and forwards it to the relay.
func (h *Hub) Publish(ctx context.Context, table string, event Event) {
	c := Change{Table: table, Event: event, Origin: h.origin}
	h.dispatch(c)

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()
	if relay == nil {
		return
	}
	if err := relay.Forward(ctx, c); err != nil {
		log.Warnf("Failed to relay %s change on %s: %v", c.Event, c.Table, err)
	}
}

// Deliver dispatches a change received from a relay. Changes this hub
// published itself were already dispatched and are ignored.
func (h *Hub) Deliver(c Change) {
	if c.Origin == h.origin {
		return
	}
	h.dispatch(c)
}

func (h *Hub) dispatch(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.table == c.Table && sub.mask&c.Event != 0 {
			sub.offer(c)
		}
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[uint64]*Subscription)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.stop()
	}
}
