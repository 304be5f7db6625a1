// Package protocol defines the JSON messages exchanged over the game websocket. Every frame
// is one object tagged by its "type" field.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rerolab/9-life/domain"
)

const (
	TypeCreateRoom   = "CreateRoom"
	TypeJoinRoom     = "JoinRoom"
	TypeLeaveRoom    = "LeaveRoom"
	TypeStartGame    = "StartGame"
	TypeSpinRoulette = "SpinRoulette"
	TypeChoicePath   = "ChoicePath"
	TypeChoiceAction = "ChoiceAction"
	TypeChatMessage  = "ChatMessage"
)

// ClientMessage is the union of every client request. Only the fields of Type are set.
type ClientMessage struct {
	Type       string `json:"type"`
	PlayerName string `json:"player_name,omitempty"`
	MapID      string `json:"map_id,omitempty"`
	RoomID     string `json:"room_id,omitempty"`
	PathIndex  int    `json:"path_index"`
	ActionID   string `json:"action_id,omitempty"`
	Text       string `json:"text,omitempty"`
}

type rawClientMessage struct {
	Type       string  `json:"type"`
	PlayerName *string `json:"player_name"`
	MapID      *string `json:"map_id"`
	RoomID     *string `json:"room_id"`
	PathIndex  *int    `json:"path_index"`
	ActionID   *string `json:"action_id"`
	Text       *string `json:"text"`
}

// DecodeClientMessage parses one frame. Malformed JSON, a missing field, or a field of the
// wrong type gives domain.ErrBadMessageFormat; a well-formed frame with an unrecognised type
// gives domain.ErrUnknownMessage.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var raw rawClientMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: %w", domain.ErrBadMessageFormat, err)
	}

	msg := ClientMessage{Type: raw.Type}
	missing := func(field string) (ClientMessage, error) {
		return ClientMessage{}, fmt.Errorf("%w: %s requires %s", domain.ErrBadMessageFormat, raw.Type, field)
	}

	switch raw.Type {
	case TypeCreateRoom:
		if raw.PlayerName == nil {
			return missing("player_name")
		}
		if raw.MapID == nil {
			return missing("map_id")
		}
		msg.PlayerName, msg.MapID = *raw.PlayerName, *raw.MapID

	case TypeJoinRoom:
		if raw.RoomID == nil {
			return missing("room_id")
		}
		if raw.PlayerName == nil {
			return missing("player_name")
		}
		msg.RoomID, msg.PlayerName = *raw.RoomID, *raw.PlayerName

	case TypeLeaveRoom, TypeStartGame, TypeSpinRoulette:

	case TypeChoicePath:
		if raw.PathIndex == nil {
			return missing("path_index")
		}
		msg.PathIndex = *raw.PathIndex

	case TypeChoiceAction:
		if raw.ActionID == nil {
			return missing("action_id")
		}
		msg.ActionID = *raw.ActionID

	case TypeChatMessage:
		if raw.Text == nil {
			return missing("text")
		}
		msg.Text = *raw.Text

	case "":
		return ClientMessage{}, fmt.Errorf("%w: missing type", domain.ErrBadMessageFormat)

	default:
		return ClientMessage{}, fmt.Errorf("%w: %q", domain.ErrUnknownMessage, raw.Type)
	}

	return msg, nil
}

// Encode marshals a client message; used by tests and tooling that act as a client.
func (m ClientMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
