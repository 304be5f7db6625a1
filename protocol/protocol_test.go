package protocol

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClientMessage(t *testing.T) {
	testCases := []struct {
		desc        string
		frame       string
		expected    ClientMessage
		expectedErr error
	}{
		{
			desc:     "create room",
			frame:    `{"type":"CreateRoom","player_name":"Alice","map_id":"classic"}`,
			expected: ClientMessage{Type: TypeCreateRoom, PlayerName: "Alice", MapID: "classic"},
		},
		{
			desc:     "join room",
			frame:    `{"type":"JoinRoom","room_id":"ABC123","player_name":"Bob"}`,
			expected: ClientMessage{Type: TypeJoinRoom, RoomID: "ABC123", PlayerName: "Bob"},
		},
		{desc: "unit variant", frame: `{"type":"SpinRoulette"}`, expected: ClientMessage{Type: TypeSpinRoulette}},
		{desc: "leave", frame: `{"type":"LeaveRoom"}`, expected: ClientMessage{Type: TypeLeaveRoom}},
		{desc: "path zero", frame: `{"type":"ChoicePath","path_index":0}`, expected: ClientMessage{Type: TypeChoicePath}},
		{desc: "path", frame: `{"type":"ChoicePath","path_index":1}`, expected: ClientMessage{Type: TypeChoicePath, PathIndex: 1}},
		{
			desc:     "action",
			frame:    `{"type":"ChoiceAction","action_id":"skip"}`,
			expected: ClientMessage{Type: TypeChoiceAction, ActionID: "skip"},
		},
		{
			desc:     "chat",
			frame:    `{"type":"ChatMessage","text":"hi"}`,
			expected: ClientMessage{Type: TypeChatMessage, Text: "hi"},
		},
		{desc: "not json", frame: `{type`, expectedErr: domain.ErrBadMessageFormat},
		{desc: "no type", frame: `{"text":"hi"}`, expectedErr: domain.ErrBadMessageFormat},
		{desc: "missing field", frame: `{"type":"ChoicePath"}`, expectedErr: domain.ErrBadMessageFormat},
		{desc: "wrong field type", frame: `{"type":"ChoicePath","path_index":"one"}`, expectedErr: domain.ErrBadMessageFormat},
		{desc: "join without name", frame: `{"type":"JoinRoom","room_id":"ABC123"}`, expectedErr: domain.ErrBadMessageFormat},
		{desc: "unknown type", frame: `{"type":"Teleport"}`, expectedErr: domain.ErrUnknownMessage},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			msg, err := DecodeClientMessage([]byte(tc.frame))

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, msg)
		})
	}
}

func TestClientMessageEncodeDecodes(t *testing.T) {
	data, err := ClientMessage{Type: TypeJoinRoom, RoomID: "XYZ789", PlayerName: "Carol"}.Encode()
	require.NoError(t, err)

	msg, err := DecodeClientMessage(data)

	require.NoError(t, err)
	assert.Equal(t, "XYZ789", msg.RoomID)
	assert.Equal(t, "Carol", msg.PlayerName)
}

func TestEncodeServerMessages(t *testing.T) {
	testCases := []struct {
		desc     string
		msg      ServerMessage
		expected string
	}{
		{
			desc:     "room created",
			msg:      MakeRoomCreated("ABC123", "p1"),
			expected: `{"type":"RoomCreated","room_id":"ABC123","invite_url":"/room/ABC123","player_id":"p1"}`,
		},
		{
			desc:     "roulette",
			msg:      MakeRouletteResult(engine.SpinResult{PlayerID: "p1", Value: 7}),
			expected: `{"type":"RouletteResult","player_id":"p1","value":7}`,
		},
		{
			desc:     "choices",
			msg:      MakeChoiceRequired([]engine.Choice{{ID: "skip", Label: "Don't buy"}}),
			expected: `{"type":"ChoiceRequired","choices":[{"id":"skip","label":"Don't buy"}]}`,
		},
		{
			desc:     "turn changed",
			msg:      MakeTurnChanged(1, "p2"),
			expected: `{"type":"TurnChanged","current_turn":1,"player_id":"p2"}`,
		},
		{
			desc: "game ended",
			msg: MakeGameEnded([]engine.Ranking{
				{PlayerID: "p2", PlayerName: "Bob", TotalAssets: 100000, Rank: 1},
			}),
			expected: `{"type":"GameEnded","rankings":[{"player_id":"p2","player_name":"Bob","total_assets":100000,"rank":1}]}`,
		},
		{
			desc:     "error keeps the wrapped code",
			msg:      MakeError(fmt.Errorf("room ZZZ999: %w", domain.ErrRoomNotFound)),
			expected: `{"type":"Error","code":"room-not-found","message":"room ZZZ999: room-not-found"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			data, err := Encode(tc.msg)

			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(data))
		})
	}
}

func TestTypeFieldMatchesMessageType(t *testing.T) {
	s := engine.NewClassicEngine().Init([]engine.PlayerSeat{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}, engine.MapData{
		Tiles: []engine.TileData{{ID: 0, Type: engine.TileStart, Next: []int{1}}, {ID: 1, Type: engine.TileRetire}},
	})

	msgs := []ServerMessage{
		MakeRoomCreated("R", "p"),
		MakeRoomState("R", "p", "p", nil, "lobby"),
		MakePlayerJoined("p", "n"),
		MakePlayerLeft("p"),
		MakeHostChanged("p"),
		MakeGameStarted(s),
		MakeGameSync(s),
		MakeRouletteResult(engine.SpinResult{}),
		MakePlayerMoved("p", 3),
		MakeChoiceRequired(nil),
		MakeTurnChanged(0, "p"),
		MakeGameEnded(nil),
		MakeChatBroadcast("p", "n", "t"),
		MakeError(domain.ErrRoomFull),
	}

	for _, m := range msgs {
		data, err := Encode(m)
		require.NoError(t, err)
		var tagged struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &tagged))
		assert.Equal(t, m.MessageType(), tagged.Type)
	}
}

func TestGameStartedCarriesTurnOrder(t *testing.T) {
	s := engine.NewClassicEngine().Init([]engine.PlayerSeat{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, engine.MapData{
		Tiles: []engine.TileData{{ID: 0, Type: engine.TileStart, Next: []int{1}}, {ID: 1, Type: engine.TileRetire}},
	})

	msg := MakeGameStarted(s)

	assert.Equal(t, []string{"a", "b"}, msg.TurnOrder)
	assert.Len(t, msg.Board.Tiles, 2)
}
