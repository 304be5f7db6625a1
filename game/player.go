package game

import (
	"sync"
	"time"

	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/protocol"
	"golang.org/x/time/rate"
)

const outboxSize = 64

// Player is one websocket connection. Its Send never blocks: the write pump drains the
// outbox, and a full outbox rejects the message.
type Player struct {
	id     string
	name   string
	roomID string

	socket      NetworkSession
	rateLimiter *rate.Limiter
	outbox      chan []byte

	mu        sync.Mutex
	closed    bool
	closeCode string

	done chan struct{}
}

func NewPlayer(socket NetworkSession, limit rate.Limit, burst int) *Player {
	return &Player{
		socket:      socket,
		rateLimiter: rate.NewLimiter(limit, burst),
		outbox:      make(chan []byte, outboxSize),
		done:        make(chan struct{}),
	}
}

func (p *Player) Send(msg protocol.ServerMessage) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.ErrConnectionClosed
	}
	select {
	case p.outbox <- data:
		return nil
	default:
		return domain.ErrSendBufferFull
	}
}

// Close stops accepting messages. The write pump flushes what is queued, then closes the
// socket with errCode as the close reason.
func (p *Player) Close(errCode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.closeCode = errCode
	close(p.outbox)
}

// Done is closed once the write pump has exited and the socket is closed.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

func (p *Player) WritePump(ticks <-chan time.Time) {
	defer close(p.done)

	for {
		select {
		case data, ok := <-p.outbox:
			if !ok {
				p.socket.Close(p.closeCode)
				return
			}
			if err := p.socket.Write(data); err != nil {
				p.socket.Close("")
				return
			}
		case <-ticks:
			if err := p.socket.Ping(); err != nil {
				p.socket.Close("")
				return
			}
		}
	}
}

// ReadPump delivers decoded frames to handle until the socket fails. Frames over the rate
// limit and frames that do not decode are answered with an error and dropped.
func (p *Player) ReadPump(handle func(msg protocol.ClientMessage) bool) {
	for {
		data, err := p.socket.Read()
		if err != nil {
			return
		}
		if !p.rateLimiter.Allow() {
			p.Send(protocol.MakeError(domain.ErrRateLimited))
			continue
		}
		msg, err := protocol.DecodeClientMessage(data)
		if err != nil {
			p.Send(protocol.MakeError(err))
			continue
		}
		if !handle(msg) {
			return
		}
	}
}
