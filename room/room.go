package room

import (
	"context"
	"sync"
	"time"

	"github.com/rerolab/9-life/engine"
	"github.com/rerolab/9-life/protocol"
)

type Status string

const (
	StatusLobby    Status = "lobby"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Sender delivers a message to one connected player. Implementations must not block.
type Sender interface {
	Send(msg protocol.ServerMessage) error
}

type UniqueIdGenerator interface {
	Generate() string
}

type MapLoader interface {
	Load(id string) (engine.MapData, error)
}

// ResultRecorder archives finished games. It is called outside every room lock.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result GameResult) error
}

type GameResult struct {
	RoomID     string           `json:"room_id"`
	MapID      string           `json:"map_id"`
	FinishedAt time.Time        `json:"finished_at"`
	Rankings   []engine.Ranking `json:"rankings"`
}

// Info is the public view of a room.
type Info struct {
	ID          string                `json:"id"`
	HostID      string                `json:"host_id"`
	Players     []protocol.PlayerInfo `json:"players"`
	Status      Status                `json:"status"`
	MapID       string                `json:"map_id"`
	PlayerCount int                   `json:"player_count"`
	MaxPlayers  int                   `json:"max_players"`
	CreatedAt   time.Time             `json:"created_at"`
}

type member struct {
	id     string
	name   string
	sender Sender
}

type room struct {
	mu sync.Mutex

	id         string
	hostID     string
	members    []member
	status     Status
	mapID      string
	createdAt  time.Time
	maxPlayers int

	engine engine.Engine
	state  *engine.State

	// set once the room has left the table; holders of a stale pointer treat it as gone
	deleted bool
}

func (r *room) memberIndex(playerID string) int {
	for i, m := range r.members {
		if m.id == playerID {
			return i
		}
	}
	return -1
}

func (r *room) info() Info {
	players := make([]protocol.PlayerInfo, len(r.members))
	for i, m := range r.members {
		players[i] = protocol.PlayerInfo{ID: m.id, Name: m.name}
	}
	return Info{
		ID:          r.id,
		HostID:      r.hostID,
		Players:     players,
		Status:      r.status,
		MapID:       r.mapID,
		PlayerCount: len(r.members),
		MaxPlayers:  r.maxPlayers,
		CreatedAt:   r.createdAt,
	}
}
