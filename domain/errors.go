package domain

import "errors"

// Room lifecycle.
var (
	ErrRoomNotFound       = errors.New("room-not-found")
	ErrRoomNotInLobby     = errors.New("room-not-in-lobby")
	ErrRoomFull           = errors.New("room-full")
	ErrTooManyRooms       = errors.New("too-many-rooms")
	ErrRoomIdExhausted    = errors.New("room-id-exhausted")
	ErrPlayerNotFound     = errors.New("player-not-found")
	ErrNotHost            = errors.New("not-host")
	ErrTooFewPlayers      = errors.New("too-few-players")
	ErrServerShuttingDown = errors.New("server-shutting-down")
)

// Gameplay.
var (
	ErrNotStarted         = errors.New("not-started")
	ErrGameFinished       = errors.New("game-finished")
	ErrNotYourTurn        = errors.New("not-your-turn")
	ErrWrongPhase         = errors.New("wrong-phase")
	ErrInvalidChatMessage = errors.New("invalid-chat-message")
)

var (
	ErrUnknownMap = errors.New("unknown-map")
	ErrInvalidMap = errors.New("invalid-map")
)

// Connection layer.
var (
	ErrSendBufferFull      = errors.New("send-buffer-full")
	ErrConnectionClosed    = errors.New("connection-closed")
	ErrRateLimited         = errors.New("rate-limited")
	ErrInvalidFirstMessage = errors.New("invalid-first-message")
	ErrBadMessageFormat    = errors.New("bad-message-format")
	ErrUnknownMessage      = errors.New("unknown-message")
)

var (
	UnexpectedDatabaseError = errors.New("unexpected-database-error")
	ErrArchiveDisabled      = errors.New("results-archive-disabled")
	ErrUnknown              = errors.New("unknown-error")
)

var coded = []error{
	ErrRoomNotFound, ErrRoomNotInLobby, ErrRoomFull, ErrTooManyRooms, ErrRoomIdExhausted,
	ErrPlayerNotFound, ErrNotHost, ErrTooFewPlayers, ErrServerShuttingDown,
	ErrNotStarted, ErrGameFinished, ErrNotYourTurn, ErrWrongPhase, ErrInvalidChatMessage,
	ErrUnknownMap, ErrInvalidMap,
	ErrSendBufferFull, ErrConnectionClosed, ErrRateLimited, ErrInvalidFirstMessage, ErrBadMessageFormat, ErrUnknownMessage,
	UnexpectedDatabaseError, ErrArchiveDisabled,
}

// Code returns the wire code of the first known error in err's chain, or "unknown-error".
func Code(err error) string {
	for _, c := range coded {
		if errors.Is(err, c) {
			return c.Error()
		}
	}
	return ErrUnknown.Error()
}
