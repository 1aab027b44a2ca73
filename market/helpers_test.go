package market

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mcmanyika/Musika/db/dbtest"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

var (
	producer    = Actor{ID: "producer-1", Name: "farmer@example.com"}
	buyer       = Actor{ID: "buyer-1", Name: "buyer@example.com"}
	transporter = Actor{ID: "transporter-1", Name: "hauler@example.com"}
	stranger    = Actor{ID: "stranger-1", Name: "someone@example.com"}
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	args := m.Called(bucket, path, contentType)
	return args.String(0), args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	tables []string
}

func (p *recordingPublisher) Publish(ctx context.Context, table string, event realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables = append(p.tables, table)
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tables...)
}

type fixture struct {
	svc       *Service
	db        *gorm.DB
	publisher *recordingPublisher
	ctx       context.Context
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	pub := &recordingPublisher{}
	opts = append([]Option{WithPublisher(pub), WithClock(func() time.Time { return testNow })}, opts...)

	f := &fixture{
		svc:       NewService(gdb, opts...),
		db:        gdb,
		publisher: pub,
		ctx:       context.Background(),
	}
	require.NoError(t, gdb.Create(&types.Commodity{ID: "maize", Name: "Maize", Unit: "kg", Price: 0.35}).Error)
	require.NoError(t, gdb.Create(&types.Commodity{ID: "tomatoes", Name: "Tomatoes", Unit: "bucket", Price: 7.5}).Error)
	return f
}

func (f *fixture) yield(t *testing.T, quantity float64) *types.ProducerYield {
	t.Helper()
	y, err := f.svc.PostYield(f.ctx, producer, YieldInput{
		Commodity:        "Maize",
		ExpectedQuantity: quantity,
		ExpectedDate:     testNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	return y
}

func (f *fixture) offer(t *testing.T, yieldID string, quantity, price float64) *types.BuyerOrder {
	t.Helper()
	o, err := f.svc.PostOffer(f.ctx, buyer, OfferInput{YieldID: yieldID, Quantity: quantity, Price: price})
	require.NoError(t, err)
	return o
}

func (f *fixture) bid(t *testing.T, who Actor, orderID string, amount float64) *types.TransportBid {
	t.Helper()
	b, err := f.svc.PlaceBid(f.ctx, who, BidInput{OrderID: orderID, Amount: amount, EstimatedDate: testNow.AddDate(0, 0, 20)})
	require.NoError(t, err)
	return b
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) delivered(t *testing.T) *types.TransactionHistory {
	t.Helper()
	y := f.yield(t, 100)
	o := f.offer(t, y.ID, 40, 2)
	b := f.bid(t, transporter, o.ID, 50)
	tx, err := f.svc.AcceptTransportBid(f.ctx, producer, b.ID)
	require.NoError(t, err)
	_, err = f.svc.AdvanceTransaction(f.ctx, tx.ID, types.StatusInTransit)
	require.NoError(t, err)
	tx, err = f.svc.AdvanceTransaction(f.ctx, tx.ID, types.StatusDelivered)
	require.NoError(t, err)
	return tx
}
