package room

import (
	"context"

	"github.com/rerolab/9-life/engine"
	"github.com/rerolab/9-life/protocol"
	"github.com/stretchr/testify/mock"
)

// --- Sender ---

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(msg protocol.ServerMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

// --- MapLoader ---

type MockMapLoader struct {
	mock.Mock
}

func (m *MockMapLoader) Load(id string) (engine.MapData, error) {
	args := m.Called(id)
	return args.Get(0).(engine.MapData), args.Error(1)
}

// --- ResultRecorder ---

type MockResultRecorder struct {
	mock.Mock
}

func (m *MockResultRecorder) RecordResult(ctx context.Context, result GameResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
