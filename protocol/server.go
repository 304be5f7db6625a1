package protocol

import (
	"encoding/json"

	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/engine"
)

// ServerMessage is anything the server sends down a socket.
type ServerMessage interface {
	MessageType() string
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RoomCreated struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id"`
	InviteURL string `json:"invite_url"`
	PlayerID  string `json:"player_id"`
}

type RoomState struct {
	Type     string       `json:"type"`
	RoomID   string       `json:"room_id"`
	PlayerID string       `json:"player_id"`
	HostID   string       `json:"host_id"`
	Players  []PlayerInfo `json:"players"`
	Status   string       `json:"status"`
}

type PlayerJoined struct {
	Type       string `json:"type"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type PlayerLeft struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
}

type HostChanged struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
}

type GameStarted struct {
	Type      string               `json:"type"`
	TurnOrder []string             `json:"turn_order"`
	Board     engine.Board         `json:"board"`
	Players   []engine.PlayerState `json:"players"`
	Careers   []engine.Career      `json:"careers"`
	Houses    []engine.House       `json:"houses"`
}

type GameSync struct {
	Type        string               `json:"type"`
	Players     []engine.PlayerState `json:"players"`
	CurrentTurn int                  `json:"current_turn"`
	Phase       engine.Phase         `json:"phase"`
}

type RouletteResult struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Value    uint32 `json:"value"`
}

type PlayerMoved struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Position int    `json:"position"`
}

type ChoiceRequired struct {
	Type    string          `json:"type"`
	Choices []engine.Choice `json:"choices"`
}

type TurnChanged struct {
	Type        string `json:"type"`
	CurrentTurn int    `json:"current_turn"`
	PlayerID    string `json:"player_id"`
}

type GameEnded struct {
	Type     string           `json:"type"`
	Rankings []engine.Ranking `json:"rankings"`
}

type ChatBroadcast struct {
	Type       string `json:"type"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
}

type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (RoomCreated) MessageType() string    { return "RoomCreated" }
func (RoomState) MessageType() string      { return "RoomState" }
func (PlayerJoined) MessageType() string   { return "PlayerJoined" }
func (PlayerLeft) MessageType() string     { return "PlayerLeft" }
func (HostChanged) MessageType() string    { return "HostChanged" }
func (GameStarted) MessageType() string    { return "GameStarted" }
func (GameSync) MessageType() string       { return "GameSync" }
func (RouletteResult) MessageType() string { return "RouletteResult" }
func (PlayerMoved) MessageType() string    { return "PlayerMoved" }
func (ChoiceRequired) MessageType() string { return "ChoiceRequired" }
func (TurnChanged) MessageType() string    { return "TurnChanged" }
func (GameEnded) MessageType() string      { return "GameEnded" }
func (ChatBroadcast) MessageType() string  { return "ChatBroadcast" }
func (Error) MessageType() string          { return "Error" }

// --- Room lifecycle ---

func MakeRoomCreated(roomID, playerID string) RoomCreated {
	return RoomCreated{
		Type:      "RoomCreated",
		RoomID:    roomID,
		InviteURL: "/room/" + roomID,
		PlayerID:  playerID,
	}
}

func MakeRoomState(roomID, playerID, hostID string, players []PlayerInfo, status string) RoomState {
	return RoomState{
		Type:     "RoomState",
		RoomID:   roomID,
		PlayerID: playerID,
		HostID:   hostID,
		Players:  players,
		Status:   status,
	}
}

func MakePlayerJoined(playerID, playerName string) PlayerJoined {
	return PlayerJoined{Type: "PlayerJoined", PlayerID: playerID, PlayerName: playerName}
}

func MakePlayerLeft(playerID string) PlayerLeft {
	return PlayerLeft{Type: "PlayerLeft", PlayerID: playerID}
}

func MakeHostChanged(playerID string) HostChanged {
	return HostChanged{Type: "HostChanged", PlayerID: playerID}
}

// --- Game flow ---

func MakeGameStarted(s *engine.State) GameStarted {
	order := make([]string, len(s.Players))
	for i, p := range s.Players {
		order[i] = p.ID
	}
	return GameStarted{
		Type:      "GameStarted",
		TurnOrder: order,
		Board:     s.Board,
		Players:   s.Players,
		Careers:   s.Careers,
		Houses:    s.HousesForSale,
	}
}

func MakeGameSync(s *engine.State) GameSync {
	return GameSync{
		Type:        "GameSync",
		Players:     s.Players,
		CurrentTurn: s.CurrentTurn,
		Phase:       s.Phase,
	}
}

func MakeRouletteResult(r engine.SpinResult) RouletteResult {
	return RouletteResult{Type: "RouletteResult", PlayerID: r.PlayerID, Value: r.Value}
}

func MakePlayerMoved(playerID string, position int) PlayerMoved {
	return PlayerMoved{Type: "PlayerMoved", PlayerID: playerID, Position: position}
}

func MakeChoiceRequired(choices []engine.Choice) ChoiceRequired {
	return ChoiceRequired{Type: "ChoiceRequired", Choices: choices}
}

func MakeTurnChanged(currentTurn int, playerID string) TurnChanged {
	return TurnChanged{Type: "TurnChanged", CurrentTurn: currentTurn, PlayerID: playerID}
}

func MakeGameEnded(rankings []engine.Ranking) GameEnded {
	return GameEnded{Type: "GameEnded", Rankings: rankings}
}

func MakeChatBroadcast(playerID, playerName, text string) ChatBroadcast {
	return ChatBroadcast{Type: "ChatBroadcast", PlayerID: playerID, PlayerName: playerName, Text: text}
}

// MakeError carries the stable code of err, with the full error text as the message.
func MakeError(err error) Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Error{Type: "Error", Code: domain.Code(err), Message: msg}
}

func Encode(msg ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}
