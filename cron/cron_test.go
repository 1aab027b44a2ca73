package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Refresh(ctx context.Context) (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockFeed) EnsureLoaded(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

type countingSyncer struct {
	calls int32
}

func (c *countingSyncer) Sync(ctx context.Context) (int, error) {
	atomic.AddInt32(&c.calls, 1)
	return 0, nil
}

func TestStartScheduler_LoadsCommoditiesOnStart(t *testing.T) {
	feed := new(MockFeed)
	feed.On("EnsureLoaded").Return(errors.New("gemini unavailable")).Once()

	s, err := StartScheduler(Options{CommoditySpec: "0 0 6 * * *"}, feed, nil)
	require.NoError(t, err)
	defer s.Stop()

	feed.AssertExpectations(t)
	feed.AssertNotCalled(t, "Refresh")
}

func TestStartScheduler_InvalidSpec(t *testing.T) {
	feed := new(MockFeed)
	feed.On("EnsureLoaded").Return(nil)

	_, err := StartScheduler(Options{CommoditySpec: "every morning"}, feed, nil)
	assert.Error(t, err)
}

func TestStartScheduler_RunsFulfillmentSync(t *testing.T) {
	syncer := &countingSyncer{}

	s, err := StartScheduler(Options{SyncEvery: time.Hour}, nil, syncer)
	require.NoError(t, err)
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&syncer.calls) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartScheduler_RejectsZeroInterval(t *testing.T) {
	_, err := StartScheduler(Options{}, nil, &countingSyncer{})
	assert.Error(t, err)
}

func TestRefreshCommodities(t *testing.T) {
	feed := new(MockFeed)
	feed.On("Refresh").Return(0, errors.New("all sources failed")).Once()
	feed.On("Refresh").Return(12, nil).Once()

	s := &Scheduler{feed: feed}
	s.refreshCommodities()
	s.refreshCommodities()

	feed.AssertNumberOfCalls(t, "Refresh", 2)
}
