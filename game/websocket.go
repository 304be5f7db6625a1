package game

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait     = time.Minute
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	closeWait    = 2 * time.Second
)

type websocketConnection struct {
	socket *websocket.Conn
}

func (wc *websocketConnection) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (wc *websocketConnection) Read() ([]byte, error) {
	for {
		kind, p, err := wc.socket.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.TextMessage {
			return p, nil
		}
	}
}

func (wc *websocketConnection) Close(errCode string) {
	code := websocket.CloseNormalClosure
	if errCode != "" {
		code = websocket.ClosePolicyViolation
	}
	wc.socket.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, errCode), time.Now().Add(closeWait))
	wc.socket.Close()
}

func NewWebsocketConnection(conn *websocket.Conn) *websocketConnection {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &websocketConnection{conn}
}

type tickerGen struct{}

func NewTickerGen() tickerGen {
	return tickerGen{}
}

func (tickerGen) Create(duration time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(duration)
	return t.C, t.Stop
}
