package game

import (
	"context"
	"time"

	"github.com/rerolab/9-life/room"
	"github.com/stretchr/testify/mock"
)

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) (<-chan time.Time, func()) {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time), func() {}
}

// --- ResultsLister ---

type MockResultsLister struct {
	mock.Mock
}

func (m *MockResultsLister) RecentResults(ctx context.Context, limit int) ([]room.GameResult, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]room.GameResult), args.Error(1)
}

// --- MapLister ---

type MockMapLister struct {
	mock.Mock
}

func (m *MockMapLister) IDs() []string {
	args := m.Called()
	return args.Get(0).([]string)
}
