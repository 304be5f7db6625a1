package game

import (
	"context"
	"time"

	"github.com/rerolab/9-life/protocol"
	"github.com/rerolab/9-life/room"
)

type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) (<-chan time.Time, func())
}

// RoomService is what the connection layer needs from the room manager.
type RoomService interface {
	CreateRoom(hostName, mapID string, sender room.Sender) (string, string, error)
	JoinRoom(roomID, name string, sender room.Sender) (string, error)
	LeaveRoom(roomID, playerID string) ([]protocol.ServerMessage, error)
	StartGame(roomID, actor string) ([]protocol.ServerMessage, error)
	SpinRoulette(roomID, actor string) ([]protocol.ServerMessage, error)
	ChoosePath(roomID, actor string, index int) ([]protocol.ServerMessage, error)
	ChooseAction(roomID, actor, actionID string) ([]protocol.ServerMessage, error)
	Chat(roomID, actor, text string) ([]protocol.ServerMessage, error)
	Broadcast(roomID string, msgs ...protocol.ServerMessage)
	BroadcastExcept(roomID, exceptID string, msgs ...protocol.ServerMessage)
	RoomInfo(roomID string) (room.Info, error)
	PublicRooms() []room.Info
}

type ResultsLister interface {
	RecentResults(ctx context.Context, limit int) ([]room.GameResult, error)
}

type MapLister interface {
	IDs() []string
}
