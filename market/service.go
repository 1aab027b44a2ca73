// Package market implements posting, bidding, acceptance and rating for the
// marketplace. Every operation validates its input before touching the store.
package market

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mcmanyika/Musika/realtime"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	BucketProductImages = "product-images"
	BucketProfilePhotos = "profile-photos"
)

// Actor is the signed-in user performing an operation.
type Actor struct {
	ID   string
	Name string
}

func (a Actor) check() error {
	if strings.TrimSpace(a.ID) == "" {
		return &AuthorizationError{Reason: "no signed-in user"}
	}
	return nil
}

// DisplayName falls back to the local part of an email address.
func (a Actor) DisplayName() string {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return a.ID
	}
	if at := strings.Index(name, "@"); at > 0 {
		return name[:at]
	}
	return name
}

type Uploader interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, table string, event realtime.Event)
}

type Service struct {
	db        *gorm.DB
	uploader  Uploader
	publisher Publisher
	now       func() time.Time

	orderLocks   map[string]*sync.Mutex
	orderLocksMu sync.Mutex
}

type Option func(*Service)

func WithUploader(u Uploader) Option {
	return func(s *Service) { s.uploader = u }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(gdb *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:         gdb,
		now:        time.Now,
		orderLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying store for collaborators sharing it.
func (s *Service) DB() *gorm.DB {
	return s.db
}

func (s *Service) getOrderLock(orderID string) *sync.Mutex {
	s.orderLocksMu.Lock()
	defer s.orderLocksMu.Unlock()

	if _, exists := s.orderLocks[orderID]; !exists {
		s.orderLocks[orderID] = &sync.Mutex{}
	}
	return s.orderLocks[orderID]
}

// forUpdate adds row locking where the dialect supports it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (s *Service) publish(ctx context.Context, table string, event realtime.Event) {
	if s.publisher != nil {
		s.publisher.Publish(ctx, table, event)
	}
}
