// Package room owns the live rooms: membership, turn legality, and driving the engine. Each
// room has its own lock, so rooms never wait on each other.
package room

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/engine"
	"github.com/rerolab/9-life/protocol"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxPlayers = 6
	DefaultMaxRooms   = 100

	minPlayers        = 2
	maxRoomIDAttempts = 16
	maxChatRunes      = 500
	maxNameRunes      = 32
	defaultName       = "Player"
	archiveTimeout    = 5 * time.Second
)

type Options struct {
	MaxPlayers int
	// MaxRooms caps live rooms; zero or less means unlimited.
	MaxRooms  int
	Maps      MapLoader
	RoomIDs   UniqueIdGenerator
	PlayerIDs UniqueIdGenerator
	NewEngine func() engine.Engine
	Recorder  ResultRecorder
}

type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*room

	maxPlayers int
	maxRooms   int
	maps       MapLoader
	roomIDs    UniqueIdGenerator
	playerIDs  UniqueIdGenerator
	newEngine  func() engine.Engine
	recorder   ResultRecorder
	now        func() time.Time

	lifecycle sync.Mutex
	closing   bool
	inflight  sync.WaitGroup
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		rooms:      map[string]*room{},
		maxPlayers: opts.MaxPlayers,
		maxRooms:   opts.MaxRooms,
		maps:       opts.Maps,
		roomIDs:    opts.RoomIDs,
		playerIDs:  opts.PlayerIDs,
		newEngine:  opts.NewEngine,
		recorder:   opts.Recorder,
		now:        time.Now,
	}
	if m.maxPlayers < minPlayers {
		m.maxPlayers = DefaultMaxPlayers
	}
	if m.roomIDs == nil {
		m.roomIDs = NewRoomIdGenerator()
	}
	if m.playerIDs == nil {
		m.playerIDs = uuidGenerator{}
	}
	if m.newEngine == nil {
		m.newEngine = func() engine.Engine { return engine.NewClassicEngine() }
	}
	return m
}

// enter registers an in-flight mutation. It fails once Shutdown has begun.
func (m *Manager) enter() bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.closing {
		return false
	}
	m.inflight.Add(1)
	return true
}

func (m *Manager) get(roomID string) (*room, error) {
	m.mu.RLock()
	r, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return r, nil
}

// lock returns the room with its lock held.
func (m *Manager) lock(roomID string) (*room, error) {
	r, err := m.get(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if r.deleted {
		r.mu.Unlock()
		return nil, domain.ErrRoomNotFound
	}
	return r, nil
}

func (m *Manager) remove(r *room) {
	m.mu.Lock()
	if m.rooms[r.id] == r {
		delete(m.rooms, r.id)
	}
	m.mu.Unlock()
	log.Info().Str("room_id", r.id).Msg("room deleted")
}

func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		name = string([]rune(name)[:maxNameRunes])
	}
	return name
}

// CreateRoom opens a lobby with the caller as host. The map id is only checked at start.
func (m *Manager) CreateRoom(hostName, mapID string, sender Sender) (roomID, playerID string, err error) {
	if !m.enter() {
		return "", "", domain.ErrServerShuttingDown
	}
	defer m.inflight.Done()

	playerID = m.playerIDs.Generate()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxRooms > 0 && len(m.rooms) >= m.maxRooms {
		return "", "", domain.ErrTooManyRooms
	}
	for range maxRoomIDAttempts {
		id := m.roomIDs.Generate()
		if _, taken := m.rooms[id]; !taken {
			roomID = id
			break
		}
	}
	if roomID == "" {
		return "", "", domain.ErrRoomIdExhausted
	}

	m.rooms[roomID] = &room{
		id:         roomID,
		hostID:     playerID,
		members:    []member{{id: playerID, name: cleanName(hostName), sender: sender}},
		status:     StatusLobby,
		mapID:      mapID,
		createdAt:  m.now(),
		maxPlayers: m.maxPlayers,
	}
	log.Info().Str("room_id", roomID).Str("player_id", playerID).Str("map_id", mapID).Msg("room created")
	return roomID, playerID, nil
}

func (m *Manager) JoinRoom(roomID, name string, sender Sender) (string, error) {
	if !m.enter() {
		return "", domain.ErrServerShuttingDown
	}
	defer m.inflight.Done()

	r, err := m.lock(roomID)
	if err != nil {
		return "", err
	}
	defer r.mu.Unlock()

	if r.status != StatusLobby {
		return "", domain.ErrRoomNotInLobby
	}
	if len(r.members) >= r.maxPlayers {
		return "", domain.ErrRoomFull
	}

	playerID := m.playerIDs.Generate()
	r.members = append(r.members, member{id: playerID, name: cleanName(name), sender: sender})
	log.Debug().Str("room_id", roomID).Str("player_id", playerID).Msg("player joined")
	return playerID, nil
}

// LeaveRoom removes a member and returns what the remaining members should hear. The last
// member out deletes the room. A player leaving a running game forfeits.
func (m *Manager) LeaveRoom(roomID, playerID string) ([]protocol.ServerMessage, error) {
	// Departures are still processed during shutdown; they are just not waited for.
	tracked := m.enter()
	if tracked {
		defer m.inflight.Done()
	}

	r, err := m.lock(roomID)
	if err != nil {
		return nil, err
	}
	msgs, result, empty, err := m.leaveLocked(r, playerID)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if empty {
		m.remove(r)
	}
	if tracked {
		m.archive(result)
	} else if result != nil {
		log.Warn().Str("room_id", roomID).Msg("shutting down, game result not archived")
	}
	return msgs, nil
}

func (m *Manager) leaveLocked(r *room, playerID string) ([]protocol.ServerMessage, *GameResult, bool, error) {
	i := r.memberIndex(playerID)
	if i < 0 {
		return nil, nil, false, domain.ErrPlayerNotFound
	}
	r.members = slices.Delete(r.members, i, i+1)
	log.Debug().Str("room_id", r.id).Str("player_id", playerID).Msg("player left")

	msgs := []protocol.ServerMessage{protocol.MakePlayerLeft(playerID)}
	if len(r.members) == 0 {
		r.deleted = true
		return msgs, nil, true, nil
	}

	if r.hostID == playerID {
		r.hostID = r.members[0].id
		msgs = append(msgs, protocol.MakeHostChanged(r.hostID))
	}

	var result *GameResult
	if r.status == StatusPlaying {
		wasTurn := r.state.CurrentPlayer().ID == playerID
		if s, ok := engine.Forfeit(r.state, playerID); ok {
			r.state = s
			if wasTurn {
				var turnMsgs []protocol.ServerMessage
				turnMsgs, result = m.advanceTurn(r)
				msgs = append(msgs, turnMsgs...)
			}
			msgs = append(msgs, protocol.MakeGameSync(r.state))
		}
	}
	return msgs, result, false, nil
}

func (m *Manager) StartGame(roomID, actor string) ([]protocol.ServerMessage, error) {
	if !m.enter() {
		return nil, domain.ErrServerShuttingDown
	}
	defer m.inflight.Done()

	r, err := m.lock(roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	if r.hostID != actor {
		return nil, domain.ErrNotHost
	}
	if r.status != StatusLobby {
		return nil, domain.ErrRoomNotInLobby
	}
	if len(r.members) < minPlayers {
		return nil, domain.ErrTooFewPlayers
	}

	md, err := m.maps.Load(r.mapID)
	if err != nil {
		log.Debug().Err(err).Str("room_id", roomID).Str("map_id", r.mapID).Msg("map load failed")
		return nil, err
	}

	seats := make([]engine.PlayerSeat, len(r.members))
	for i, mem := range r.members {
		seats[i] = engine.PlayerSeat{ID: mem.id, Name: mem.name}
	}
	e := m.newEngine()
	s := e.Init(seats, md)

	r.engine, r.state, r.status = e, s, StatusPlaying
	log.Info().Str("room_id", roomID).Int("players", len(seats)).Str("map_id", r.mapID).Msg("game started")

	return []protocol.ServerMessage{protocol.MakeGameStarted(s), protocol.MakeGameSync(s)}, nil
}

func (m *Manager) SpinRoulette(roomID, actor string) ([]protocol.ServerMessage, error) {
	return m.play(roomID, actor, engine.PhaseWaitingForSpin, func(e engine.Engine, s *engine.State) (*engine.State, []protocol.ServerMessage) {
		s, spin := e.Spin(s)
		s, events := e.Advance(s, spin.Value)
		msgs := []protocol.ServerMessage{
			protocol.MakeRouletteResult(spin),
			protocol.MakePlayerMoved(actor, s.CurrentPlayer().Position),
		}
		return s, append(msgs, choiceMessages(events)...)
	})
}

func (m *Manager) ChoosePath(roomID, actor string, index int) ([]protocol.ServerMessage, error) {
	return m.play(roomID, actor, engine.PhaseChoosingPath, func(e engine.Engine, s *engine.State) (*engine.State, []protocol.ServerMessage) {
		s = e.ChoosePath(s, index)
		return s, []protocol.ServerMessage{protocol.MakePlayerMoved(actor, s.CurrentPlayer().Position)}
	})
}

func (m *Manager) ChooseAction(roomID, actor, actionID string) ([]protocol.ServerMessage, error) {
	return m.play(roomID, actor, engine.PhaseChoosingAction, func(e engine.Engine, s *engine.State) (*engine.State, []protocol.ServerMessage) {
		s, events := e.ResolveAction(s, parseAction(s, actionID))
		return s, choiceMessages(events)
	})
}

func (m *Manager) Chat(roomID, actor, text string) ([]protocol.ServerMessage, error) {
	if !m.enter() {
		return nil, domain.ErrServerShuttingDown
	}
	defer m.inflight.Done()

	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxChatRunes {
		return nil, domain.ErrInvalidChatMessage
	}

	r, err := m.lock(roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	i := r.memberIndex(actor)
	if i < 0 {
		return nil, domain.ErrPlayerNotFound
	}
	return []protocol.ServerMessage{protocol.MakeChatBroadcast(actor, r.members[i].name, text)}, nil
}

type turnStep func(e engine.Engine, s *engine.State) (*engine.State, []protocol.ServerMessage)

// play runs one gameplay step for actor under the room lock, then hands the turn on if
// the step ended it.
func (m *Manager) play(roomID, actor string, phase engine.Phase, step turnStep) ([]protocol.ServerMessage, error) {
	if !m.enter() {
		return nil, domain.ErrServerShuttingDown
	}
	defer m.inflight.Done()

	r, err := m.lock(roomID)
	if err != nil {
		return nil, err
	}
	msgs, result, err := m.playLocked(r, actor, phase, step)
	r.mu.Unlock()
	if err != nil {
		log.Debug().Str("room_id", roomID).Str("player_id", actor).Str("code", domain.Code(err)).Msg("request rejected")
		return nil, err
	}

	m.archive(result)
	return msgs, nil
}

func (m *Manager) playLocked(r *room, actor string, phase engine.Phase, step turnStep) ([]protocol.ServerMessage, *GameResult, error) {
	switch r.status {
	case StatusLobby:
		return nil, nil, domain.ErrNotStarted
	case StatusFinished:
		return nil, nil, domain.ErrGameFinished
	}
	if r.state.CurrentPlayer().ID != actor {
		return nil, nil, domain.ErrNotYourTurn
	}
	if r.state.Phase != phase {
		return nil, nil, domain.ErrWrongPhase
	}

	s, msgs := step(r.engine, r.state)
	r.state = s

	var result *GameResult
	if s.Phase == engine.PhaseTurnEnd {
		var turnMsgs []protocol.ServerMessage
		turnMsgs, result = m.advanceTurn(r)
		msgs = append(msgs, turnMsgs...)
	}
	return append(msgs, protocol.MakeGameSync(r.state)), result, nil
}

// advanceTurn ends the game when nobody is left on the board, otherwise passes the turn.
// Caller holds r.mu.
func (m *Manager) advanceTurn(r *room) ([]protocol.ServerMessage, *GameResult) {
	if r.engine.IsFinished(r.state) {
		rankings := r.engine.Rankings(r.state)
		r.status = StatusFinished
		log.Info().Str("room_id", r.id).Msg("game finished")
		return []protocol.ServerMessage{protocol.MakeGameEnded(rankings)}, &GameResult{
			RoomID:     r.id,
			MapID:      r.mapID,
			FinishedAt: m.now(),
			Rankings:   rankings,
		}
	}

	r.state = r.engine.EndTurn(r.state)
	return []protocol.ServerMessage{
		protocol.MakeTurnChanged(r.state.CurrentTurn, r.state.CurrentPlayer().ID),
	}, nil
}

// archive hands a finished game to the recorder in the background. The caller must hold
// an in-flight slot so Shutdown waits for the write.
func (m *Manager) archive(result *GameResult) {
	if result == nil || m.recorder == nil {
		return
	}
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := m.recorder.RecordResult(ctx, *result); err != nil {
			log.Error().Err(err).Str("room_id", result.RoomID).Msg("failed to archive game result")
		}
	}()
}

func choiceMessages(events []engine.Event) []protocol.ServerMessage {
	var msgs []protocol.ServerMessage
	for _, ev := range events {
		if ev.Kind == engine.EventChoiceRequired {
			msgs = append(msgs, protocol.MakeChoiceRequired(ev.Choices))
		}
	}
	return msgs
}

func (m *Manager) Broadcast(roomID string, msgs ...protocol.ServerMessage) {
	m.BroadcastExcept(roomID, "", msgs...)
}

// BroadcastExcept sends msgs to every member but exceptID. Sends happen outside the room
// lock; a member whose sender fails misses the rest of the batch.
func (m *Manager) BroadcastExcept(roomID, exceptID string, msgs ...protocol.ServerMessage) {
	r, err := m.get(roomID)
	if err != nil {
		return
	}
	r.mu.Lock()
	members := slices.Clone(r.members)
	r.mu.Unlock()

	for _, mem := range members {
		if mem.id == exceptID {
			continue
		}
		for _, msg := range msgs {
			if err := mem.sender.Send(msg); err != nil {
				log.Warn().Err(err).Str("room_id", roomID).Str("player_id", mem.id).Msg("send failed")
				break
			}
		}
	}
}

func (m *Manager) RoomInfo(roomID string) (Info, error) {
	r, err := m.lock(roomID)
	if err != nil {
		return Info{}, err
	}
	defer r.mu.Unlock()
	return r.info(), nil
}

// PublicRooms lists rooms still waiting in the lobby, oldest first.
func (m *Manager) PublicRooms() []Info {
	m.mu.RLock()
	rooms := make([]*room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		if !r.deleted && r.status == StatusLobby {
			infos = append(infos, r.info())
		}
		r.mu.Unlock()
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Shutdown stops new rooms, joins and moves, then waits for in-flight ones (and pending
// archive writes) or for ctx to expire.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.lifecycle.Lock()
	m.closing = true
	m.lifecycle.Unlock()

	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
