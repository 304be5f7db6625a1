package game

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/protocol"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultResultsLimit = 20
)

type HandlerOptions struct {
	MessageRate  float64
	MessageBurst int
	// Results may be nil when no archive is configured.
	Results ResultsLister
	Maps    MapLister
	Tickers PeriodicTickerChannelCreator
}

type GameHandler struct {
	rooms    RoomService
	results  ResultsLister
	maps     MapLister
	tickers  PeriodicTickerChannelCreator
	limit    rate.Limit
	burst    int
	upgrader websocket.Upgrader
}

func NewGameHandler(rooms RoomService, opts HandlerOptions) *GameHandler {
	h := &GameHandler{
		rooms:   rooms,
		results: opts.Results,
		maps:    opts.Maps,
		tickers: opts.Tickers,
		limit:   rate.Limit(opts.MessageRate),
		burst:   opts.MessageBurst,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The origin allow-list middleware runs before this handler.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if h.tickers == nil {
		h.tickers = NewTickerGen()
	}
	if h.burst < 1 {
		h.burst = 1
	}
	return h
}

func (h *GameHandler) WebsocketHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}
	go h.Serve(NewWebsocketConnection(conn))
}

// Serve runs one connection from handshake to departure. It returns once the player has
// left and the socket is closed.
func (h *GameHandler) Serve(socket NetworkSession) {
	p := NewPlayer(socket, h.limit, h.burst)
	ticks, stop := h.tickers.Create(pingInterval)
	defer stop()
	go p.WritePump(ticks)
	defer func() { <-p.Done() }()

	if err := h.handshake(p); err != nil {
		p.Send(protocol.MakeError(err))
		p.Close(domain.Code(err))
		return
	}

	p.ReadPump(func(msg protocol.ClientMessage) bool {
		if msg.Type == protocol.TypeLeaveRoom {
			return false
		}
		msgs, err := h.dispatch(p, msg)
		if err != nil {
			p.Send(protocol.MakeError(err))
			return true
		}
		h.rooms.Broadcast(p.roomID, msgs...)
		return true
	})

	msgs, err := h.rooms.LeaveRoom(p.roomID, p.id)
	if err == nil {
		h.rooms.Broadcast(p.roomID, msgs...)
	}
	p.Close("")
}

// handshake reads the first frame, which must create or join a room.
func (h *GameHandler) handshake(p *Player) error {
	data, err := p.socket.Read()
	if err != nil {
		return err
	}
	msg, err := protocol.DecodeClientMessage(data)
	if err != nil {
		return errors.Join(domain.ErrInvalidFirstMessage, err)
	}

	switch msg.Type {
	case protocol.TypeCreateRoom:
		roomID, playerID, err := h.rooms.CreateRoom(msg.PlayerName, msg.MapID, p)
		if err != nil {
			return err
		}
		p.id, p.roomID = playerID, roomID
		p.Send(protocol.MakeRoomCreated(roomID, playerID))

	case protocol.TypeJoinRoom:
		playerID, err := h.rooms.JoinRoom(msg.RoomID, msg.PlayerName, p)
		if err != nil {
			return err
		}
		p.id, p.roomID = playerID, msg.RoomID

	default:
		return domain.ErrInvalidFirstMessage
	}

	info, err := h.rooms.RoomInfo(p.roomID)
	if err != nil {
		return err
	}
	for _, pi := range info.Players {
		if pi.ID == p.id {
			p.name = pi.Name
		}
	}
	if msg.Type == protocol.TypeJoinRoom {
		h.rooms.BroadcastExcept(p.roomID, p.id, protocol.MakePlayerJoined(p.id, p.name))
	}
	p.Send(protocol.MakeRoomState(info.ID, p.id, info.HostID, info.Players, string(info.Status)))
	return nil
}

func (h *GameHandler) dispatch(p *Player, msg protocol.ClientMessage) ([]protocol.ServerMessage, error) {
	switch msg.Type {
	case protocol.TypeStartGame:
		return h.rooms.StartGame(p.roomID, p.id)
	case protocol.TypeSpinRoulette:
		return h.rooms.SpinRoulette(p.roomID, p.id)
	case protocol.TypeChoicePath:
		return h.rooms.ChoosePath(p.roomID, p.id, msg.PathIndex)
	case protocol.TypeChoiceAction:
		return h.rooms.ChooseAction(p.roomID, p.id, msg.ActionID)
	case protocol.TypeChatMessage:
		return h.rooms.Chat(p.roomID, p.id, msg.Text)
	}
	// CreateRoom and JoinRoom are only valid as the first frame.
	return nil, domain.ErrUnknownMessage
}

func (h *GameHandler) GetRoomHandler(ctx *gin.Context) {
	info, err := h.rooms.RoomInfo(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": domain.Code(err)})
		return
	}
	ctx.JSON(http.StatusOK, info)
}

func (h *GameHandler) GetPublicRoomsHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"rooms": h.rooms.PublicRooms()})
}

func (h *GameHandler) GetMapsHandler(ctx *gin.Context) {
	ids := []string{}
	if h.maps != nil {
		ids = h.maps.IDs()
	}
	ctx.JSON(http.StatusOK, gin.H{"maps": ids})
}

type resultsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (h *GameHandler) GetResultsHandler(ctx *gin.Context) {
	if h.results == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrArchiveDisabled.Error()})
		return
	}

	var q resultsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid-limit"})
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultResultsLimit
	}

	results, err := h.results.RecentResults(ctx.Request.Context(), q.Limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list game results")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": domain.Code(err)})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": results})
}
